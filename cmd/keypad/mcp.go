package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/keypad/internal/cli"
	"github.com/aretw0/keypad/internal/config"
	"github.com/aretw0/keypad/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Exposes calculator sessions as MCP tools: new_session, press_keys, reset and current_value.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("transport") {
				a.cfg.MCP.Transport, _ = cmd.Flags().GetString("transport")
			}
			if cmd.Flags().Changed("port") {
				a.cfg.MCP.Port, _ = cmd.Flags().GetInt("port")
			}

			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()

			sessions, closeStore, err := cli.OpenSessions(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer closeStore()

			srv := mcp.NewServer(sessions, mcp.WithLogger(a.logger))

			switch a.cfg.MCP.Transport {
			case config.TransportStdio:
				// Logs go to stderr so they never corrupt JSON-RPC on stdout.
				a.logger.Info("Starting keypad MCP server (stdio)")
				return srv.ServeStdio()
			case config.TransportSSE:
				a.logger.Info("Starting keypad MCP server (SSE)", "port", a.cfg.MCP.Port)
				if err := srv.ServeSSE(ctx, a.cfg.MCP.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("mcp server: %w", err)
				}
				a.logger.Info("MCP server stopped gracefully")
				return nil
			default:
				return fmt.Errorf("unknown transport %q (supported: stdio, sse)", a.cfg.MCP.Transport)
			}
		},
	}
	cmd.Flags().String("transport", "", "Transport protocol: stdio or sse (overrides config)")
	cmd.Flags().Int("port", 0, "Port to listen on, SSE only (overrides config)")
	addStoreFlags(cmd)
	return cmd
}
