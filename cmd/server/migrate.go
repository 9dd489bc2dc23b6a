package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Kilat-Hospitality/service-reservation/internal/config"
	"github.com/Kilat-Hospitality/service-reservation/migrations"
	"github.com/Kilat-Hospitality/service-reservation/pkg/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfigAndLogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cfg.StoreDriver != config.StoreDriverPostgres {
				return errors.New("migrate requires the postgres store driver")
			}
			return database.RunMigrations(cfg.DBConfig.DatabaseURL(), migrations.FS, log)
		},
	}
}
