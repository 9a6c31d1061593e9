package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wentitech/wentitech/internal/config"
	"github.com/wentitech/wentitech/internal/db"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger, err := config.NewLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			applied, err := db.Migrate(cmd.Context(), database, cfg.DB.Driver)
			if err != nil {
				return err
			}

			logger.Info("migrations complete", zap.String("driver", cfg.DB.Driver), zap.Int64s("applied", applied))
			return nil
		},
	}
}
