package main

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/keypad/internal/config"
	"github.com/aretw0/keypad/internal/logging"
	"github.com/spf13/cobra"
)

// app carries what PersistentPreRunE resolved for the subcommands.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), logger: logging.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "keypad",
		Short: "keypad is a four-function calculator driven by key presses",
		Long: `keypad models a pocket calculator as a small state machine.
Operations apply strictly left to right, with no precedence.
Use it interactively, as a one-shot evaluator, or serve sessions over HTTP and MCP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(
		newRunCmd(a),
		newEvalCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newGraphCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// load reads the config file and environment, then applies flag overrides.
func (a *app) load(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if err := applyStoreFlags(cmd, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), level)
	return nil
}

// addStoreFlags registers the session store flags on commands that persist sessions.
func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", "", "Session store: memory, redis or file (overrides config)")
	cmd.Flags().String("store-dir", "", "Directory of the file store (overrides config)")
	cmd.Flags().String("redis-addr", "", "Redis address (overrides config)")
	cmd.Flags().Duration("session-ttl", 0, "Expire idle sessions after this long; 0 keeps them (overrides config)")
}

func applyStoreFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Lookup("store") == nil {
		return nil
	}
	if flags.Changed("store") {
		cfg.Store.Kind, _ = flags.GetString("store")
	}
	if flags.Changed("store-dir") {
		cfg.Store.Dir, _ = flags.GetString("store-dir")
	}
	if flags.Changed("redis-addr") {
		cfg.Store.Redis.Addr, _ = flags.GetString("redis-addr")
	}
	if flags.Changed("session-ttl") {
		ttl, err := flags.GetDuration("session-ttl")
		if err != nil {
			return err
		}
		cfg.Store.TTL = ttl
	}
	return nil
}
