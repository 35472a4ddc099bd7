package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newsdesk/newsroom/internal/bootstrap"
	"github.com/newsdesk/newsroom/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations and seed the default roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		if cfg.Storage.Driver == config.DriverPostgres {
			cfg.Postgres.RunMigrations = true
		}
		storage, err := bootstrap.OpenStorage(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer storage.Close()

		logger.Info("storage ready", zap.String("driver", storage.Driver))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
