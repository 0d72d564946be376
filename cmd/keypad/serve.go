package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/keypad"
	"github.com/aretw0/keypad/internal/cli"
	httpadapter "github.com/aretw0/keypad/pkg/adapters/http"
	"github.com/aretw0/keypad/pkg/observability"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP session server",
		Long:  `Serves calculator sessions as a JSON API, with Prometheus metrics and a websocket watch stream.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port, _ = cmd.Flags().GetInt("port")
			}

			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()

			metrics := observability.NewMetrics()
			sessions, closeStore, err := cli.OpenSessions(ctx, a.cfg, a.logger,
				keypad.WithLogger(a.logger),
				keypad.WithLifecycleHooks(metrics.Hooks()),
			)
			if err != nil {
				return err
			}
			defer closeStore()

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
				Handler:           httpadapter.NewHandler(sessions, httpadapter.WithMetrics(metrics), httpadapter.WithLogger(a.logger)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErrors := make(chan error, 1)
			go func() {
				a.logger.Info("Starting keypad server", "addr", srv.Addr, "store", a.cfg.Store.Kind)
				serverErrors <- srv.ListenAndServe()
			}()

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server error: %w", err)

			case <-ctx.Done():
				a.logger.Info("Shutting down", "signal", ctx.Signal())

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := srv.Shutdown(shutdownCtx); err != nil {
					a.logger.Warn("Graceful shutdown did not complete", "err", err)
					if err := srv.Close(); err != nil {
						return fmt.Errorf("error killing server: %w", err)
					}
				}
				a.logger.Info("Server stopped gracefully")
				return nil
			}
		},
	}
	cmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides config)")
	addStoreFlags(cmd)
	return cmd
}
