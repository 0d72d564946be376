package tui

import (
	"os"

	"github.com/aretw0/keypad/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// NewDisplayStyler colours the display: errors red, non-finite results amber.
func NewDisplayStyler(p termenv.Profile) func(domain.Value) string {
	return func(v domain.Value) string {
		s := p.String(v.String())
		switch {
		case v.IsError():
			return s.Foreground(p.Color("#f87171")).Bold().String()
		case v.Kind == domain.ValueNumber && !isFinite(v.Number):
			return s.Foreground(p.Color("#fbbf24")).String()
		default:
			return s.Bold().String()
		}
	}
}

func isFinite(f float64) bool {
	return f-f == 0
}
