package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/sr2706/parakram-backend/internal/config"
	"github.com/sr2706/parakram-backend/internal/db"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	run := func(step func(string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.StorageDriver != config.StorageDriverPostgres {
				return errors.Errorf("migrations need the postgres storage driver, got %q", cfg.StorageDriver)
			}
			if err = step(cfg.DatabaseURL); err != nil {
				return err
			}
			cmd.Println("done")
			return nil
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending migrations", RunE: run(db.MigrateUp)},
		&cobra.Command{Use: "down", Short: "Roll back the last migration", RunE: run(db.MigrateDown)},
	)
	return cmd
}
