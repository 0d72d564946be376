package main

import (
	"fmt"

	"github.com/aretw0/keypad/internal/cli"
	"github.com/aretw0/keypad/internal/presentation/graph"
	"github.com/aretw0/keypad/internal/runtime"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [KEY...]",
		Short: "Export the state machine as a Mermaid diagram",
		Long: `Prints a Mermaid flowchart (graph TD) of the calculator states.
With keys, the states they pass through are highlighted and the final one marked current.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var overlay *graph.GraphOverlay
			if len(args) > 0 {
				visited, err := cli.Trace(args)
				if err != nil {
					return err
				}
				overlay = &graph.GraphOverlay{
					Visited: visited,
					Current: visited[len(visited)-1],
				}
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(runtime.Edges(), overlay))
			return err
		},
	}
	return cmd
}
