package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the keypad banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{" _                              _ ", "#34d399"},
		{"| | _____ _   _ _ __   __ _  __| |", "#2dd4bf"},
		{"| |/ / _ \\ | | | '_ \\ / _` |/ _` |", "#22d3ee"},
		{"|   <  __/ |_| | |_) | (_| | (_| |", "#38bdf8"},
		{"|_|\\_\\___|\\__, | .__/ \\__,_|\\__,_|", "#60a5fa"},
		{"          |___/|_|                ", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, p.String("  v"+version+"  (:help for keys)").Faint())
	fmt.Fprintln(w)
}
