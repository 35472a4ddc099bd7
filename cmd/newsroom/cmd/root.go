package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newsdesk/newsroom/internal/config"
	"github.com/newsdesk/newsroom/internal/observability"
)

var rootCmd = &cobra.Command{
	Use:   "newsroom",
	Short: "Newsroom publishes articles and serves the news site",
	Long: `Newsroom runs the news site and its JSON API, and carries the operator
tasks around it: schema migrations, account bootstrap and payload debugging.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadRuntime parses configuration and builds the logger shared by the
// service commands.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return cfg, logger, nil
}
