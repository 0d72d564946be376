package main

import (
	"github.com/aretw0/keypad/internal/cli"
	"github.com/aretw0/keypad/internal/presentation/tui"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the interactive calculator",
		Long: `Reads keys line by line and prints the display after each line.
Keys may be separated by spaces or run together, e.g. "12+3=". Type :help for the key list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			plain, _ := cmd.Flags().GetBool("plain")

			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()

			return cli.RunREPL(ctx, cli.REPLOptions{
				In:          cmd.InOrStdin(),
				Out:         cmd.OutOrStdout(),
				Logger:      a.logger,
				Interactive: !plain && tui.IsInteractive(),
			})
		},
	}
	cmd.Flags().Bool("plain", false, "Disable banner, prompt and colours")
	return cmd
}
