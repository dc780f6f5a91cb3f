package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sr2706/parakram-backend/internal/db"
)

// The upsert takes a row lock on the counter, so concurrent callers are serialized
// per kind and each one reads back the value it wrote.
const nextCounterSQL = `INSERT INTO id_counter (kind, value) VALUES ($1, 1)
ON CONFLICT (kind) DO UPDATE SET value = id_counter.value + 1
RETURNING value`

type pgxCounterRepository struct {
	pool *pgxpool.Pool
}

func NewPgxCounterRepository(pool *pgxpool.Pool) CounterRepository {
	return &pgxCounterRepository{pool: pool}
}

func (p *pgxCounterRepository) Next(ctx context.Context, kind string) (int64, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	var value int64
	if err := e.QueryRow(ctx, nextCounterSQL, kind).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}
