package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/keypad"
	"github.com/aretw0/keypad/internal/presentation/tui"
	"github.com/aretw0/keypad/pkg/runner"
	"github.com/muesli/termenv"
)

// REPLOptions configures RunREPL.
type REPLOptions struct {
	In     io.Reader
	Out    io.Writer
	Logger *slog.Logger
	// Interactive enables the banner, prompt, colours and rendered help.
	Interactive bool
}

// RunREPL reads keys until EOF, :quit or cancellation.
func RunREPL(ctx context.Context, opts REPLOptions) error {
	runnerOpts := []runner.Option{
		runner.WithIO(opts.In, opts.Out),
		runner.WithLogger(opts.Logger),
	}
	if opts.Interactive {
		tui.PrintBanner(opts.Out, keypad.Version)
		runnerOpts = append(runnerOpts,
			runner.WithPrompt("> "),
			runner.WithRenderer(tui.NewRenderer()),
			runner.WithStyler(tui.NewDisplayStyler(termenv.ColorProfile())),
		)
	}

	calc := keypad.New(keypad.WithLogger(opts.Logger))
	return runner.NewRunner(runnerOpts...).Run(ctx, calc)
}
