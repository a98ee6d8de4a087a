package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vytor/repeetcode/internal/app"
	"github.com/vytor/repeetcode/internal/config"
	"github.com/vytor/repeetcode/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "repeetctl",
	Short: "Administer a repeetcode database",
	Long: `repeetctl imports the problem catalog, applies stranded attempts and
lists due reviews against the database configured for the server.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openApp loads the server configuration and wires the services.
func openApp(cmd *cobra.Command) (context.Context, *app.App, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(logger.ParseFormat(cfg.LogFormat)),
		logger.WithOutput(cmd.ErrOrStderr()),
	)
	logger.SetDefault(log)

	ctx := logger.NewContext(cmd.Context(), log)
	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return ctx, a, nil
}
