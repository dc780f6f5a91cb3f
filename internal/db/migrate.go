package db

import (
	"embed"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrateUp applies every pending migration. It is a no-op when the schema is current.
func MigrateUp(dsn string) error {
	return runMigration(dsn, func(m *migrate.Migrate) error { return m.Up() })
}

// MigrateDown rolls back a single migration step.
func MigrateDown(dsn string) error {
	return runMigration(dsn, func(m *migrate.Migrate) error { return m.Steps(-1) })
}

func runMigration(dsn string, step func(*migrate.Migrate) error) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "failed to open embedded migrations")
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrationURL(dsn))
	if err != nil {
		return errors.Wrap(err, "failed to init migrations")
	}
	defer m.Close()

	if err = step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "migration failed")
	}
	return nil
}

// migrationURL rewrites a libpq style url to the scheme registered by the pgx/v5 driver.
func migrationURL(dsn string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, scheme) {
			return "pgx5://" + strings.TrimPrefix(dsn, scheme)
		}
	}
	return dsn
}
