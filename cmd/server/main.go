package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/restaurant/pkg/config"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	rootCmd := &cobra.Command{
		Use:          "restaurant",
		Short:        "Restaurant ordering backend",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Load the sample menu and push it to the search index",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSeed(cmd.Context(), cfg)
			},
		},
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("command_failed", "error", err)
		stop()
		os.Exit(1)
	}
}
