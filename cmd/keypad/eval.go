package main

import (
	"github.com/aretw0/keypad/internal/cli"
	"github.com/spf13/cobra"
)

func newEvalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval KEY...",
		Short: "Press keys and print the final display",
		Example: `  keypad eval 2 + 3 =
  keypad eval "10/4=" --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				format = cli.FormatJSON
			}
			if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
				format = cli.FormatYAML
			}

			res, err := cli.Eval(args, a.logger)
			if err != nil {
				return err
			}
			return cli.WriteResult(cmd.OutOrStdout(), res, format)
		},
	}
	cmd.Flags().String("format", cli.FormatText, "Output format: text, json or yaml")
	cmd.Flags().Bool("json", false, "Shorthand for --format json")
	cmd.Flags().Bool("yaml", false, "Shorthand for --format yaml")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
	return cmd
}
