package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/keypad"
	"github.com/aretw0/keypad/internal/logging"
	"github.com/aretw0/keypad/pkg/domain"
	"github.com/aretw0/keypad/pkg/operators"
)

// ContentRenderer is a function that transforms help text before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// DisplayStyler decorates the calculator display, e.g. with terminal colours.
type DisplayStyler func(domain.Value) string

// Runner reads lines of keys and feeds them to a Calculator.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Prompt   string
	Logger   *slog.Logger
	Renderer ContentRenderer
	Styler   DisplayStyler
}

// Option configures a Runner.
type Option func(*Runner)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *Runner) {
		r.Input = in
		r.Output = out
	}
}

// WithPrompt prints prompt before reading each line. Empty disables it.
func WithPrompt(prompt string) Option {
	return func(r *Runner) {
		r.Prompt = prompt
	}
}

// WithLogger sets the logger for rejected input.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithRenderer sets the help renderer.
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}

// WithStyler sets the display styler.
func WithStyler(styler DisplayStyler) Option {
	return func(r *Runner) {
		r.Styler = styler
	}
}

// NewRunner creates a Runner on Stdin/Stdout with no prompt.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Input:  os.Stdin,
		Output: os.Stdout,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type line struct {
	text string
	err  error
}

// Run drives calc until the input ends, a quit command is read or ctx is done.
// Reaching the end of input is not an error.
func (r *Runner) Run(ctx context.Context, calc *keypad.Calculator) error {
	lines := make(chan line)
	go r.pump(ctx, lines)

	for {
		if r.Prompt != "" {
			fmt.Fprint(r.Output, r.Prompt)
		}

		var in line
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in, ok = <-lines:
		}
		if !ok {
			return nil
		}
		if in.err != nil {
			return fmt.Errorf("read input: %w", in.err)
		}

		quit, err := r.handle(calc, in.text)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// pump reads lines until EOF or error and closes out.
func (r *Runner) pump(ctx context.Context, out chan<- line) {
	defer close(out)
	sc := bufio.NewScanner(r.Input)
	for sc.Scan() {
		select {
		case out <- line{text: sc.Text()}:
		case <-ctx.Done():
			return
		}
	}
	if err := sc.Err(); err != nil {
		select {
		case out <- line{err: err}:
		case <-ctx.Done():
		}
	}
}

// handle processes one line and reports whether the session should end.
func (r *Runner) handle(calc *keypad.Calculator, text string) (bool, error) {
	clean, err := SanitizeInput(text)
	if err != nil {
		r.Logger.Warn("Input rejected", "err", err, "size", len(text))
		_, werr := fmt.Fprintf(r.Output, "rejected: %v\n", err)
		return false, werr
	}

	trimmed := strings.TrimSpace(clean)
	switch trimmed {
	case "":
		return false, nil
	case ":quit", ":q", "quit", "exit":
		return true, nil
	case ":help", "?":
		return false, r.printHelp()
	case ":state":
		snap := calc.Snapshot()
		_, err := fmt.Fprintf(r.Output, "%s %+v\n", snap.Kind, snap)
		return false, err
	}
	if strings.HasPrefix(trimmed, ":") {
		_, err := fmt.Fprintf(r.Output, "unknown command %s (try :help)\n", trimmed)
		return false, err
	}

	for _, key := range Tokenize(trimmed) {
		calc.Press(key)
	}
	return false, r.printDisplay(calc.CurrentValue())
}

func (r *Runner) printDisplay(v domain.Value) error {
	out := v.String()
	if r.Styler != nil {
		out = r.Styler(v)
	}
	_, err := fmt.Fprintln(r.Output, out)
	return err
}

func (r *Runner) printHelp() error {
	text := HelpText()
	if r.Renderer != nil {
		if rendered, err := r.Renderer(text); err == nil {
			text = rendered
		}
	}
	_, err := fmt.Fprintln(r.Output, strings.TrimRight(text, "\n"))
	return err
}

// HelpText describes the keys in Markdown.
func HelpText() string {
	var sb strings.Builder
	sb.WriteString("# keypad\n\n")
	sb.WriteString("Type keys separated by spaces or run together (`12+3=`). ")
	sb.WriteString("Operations apply strictly left to right.\n\n")
	sb.WriteString("| Key | Meaning |\n|---|---|\n")
	sb.WriteString("| `0`-`9`, `.` | digits |\n")
	for _, tok := range operators.BinaryTokens() {
		op, _ := operators.LookupBinary(tok)
		fmt.Fprintf(&sb, "| `%s` | %s |\n", tok, op.Name)
	}
	for _, tok := range operators.UnaryTokens() {
		op, _ := operators.LookupUnary(tok)
		fmt.Fprintf(&sb, "| `%s` | %s |\n", tok, op.Name)
	}
	sb.WriteString("| `=` | compute |\n")
	sb.WriteString("| `c`, `AC` | reset |\n\n")
	sb.WriteString("Commands: `:help`, `:state`, `:quit`.\n")
	return sb.String()
}
