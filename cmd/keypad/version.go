package main

import (
	"fmt"

	"github.com/aretw0/keypad"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of keypad",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "keypad version %s\n", keypad.Version)
		},
	}
}
