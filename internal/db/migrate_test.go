package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationURL(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{name: "postgres scheme", dsn: "postgres://u:p@localhost:5432/parakram?sslmode=disable", want: "pgx5://u:p@localhost:5432/parakram?sslmode=disable"},
		{name: "postgresql scheme", dsn: "postgresql://localhost/parakram", want: "pgx5://localhost/parakram"},
		{name: "already pgx5", dsn: "pgx5://localhost/parakram", want: "pgx5://localhost/parakram"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, migrationURL(tt.dsn))
		})
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestPaymentAmountGuard(t *testing.T) {
	up, err := migrationsFS.ReadFile("migrations/000001_init.up.sql")
	assert.NoError(t, err)
	assert.Contains(t, string(up), "CHECK (amount_paid >= 0 AND amount_paid <> 'NaN')")
}
