// AngelaMos | 2026
// migrate.go

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/storefront/internal/config"
	"github.com/carterperez-dev/templates/storefront/internal/core"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create any missing tables and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(
			context.Background(),
			syscall.SIGINT,
			syscall.SIGTERM,
		)
		defer stop()

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		logger := setupLogger(cfg.Log)

		db, err := core.NewDatabase(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck // process is exiting

		if err := core.EnsureSchema(ctx, db.DB); err != nil {
			return err
		}

		logger.Info("schema up to date", "driver", cfg.Database.Driver)
		return nil
	},
}
