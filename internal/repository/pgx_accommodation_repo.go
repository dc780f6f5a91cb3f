package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/sr2706/parakram-backend/internal/db"
)

type pgxAccommodationRepository struct {
	pool *pgxpool.Pool
}

func NewPgxAccommodationRepository(pool *pgxpool.Pool) AccommodationRepository {
	return &pgxAccommodationRepository{pool: pool}
}

func (p *pgxAccommodationRepository) Create(ctx context.Context, a *Accommodation) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("accommodation", "id", "type", "price"),
		im.Values(psql.Arg(a.ID), psql.Arg(a.Type), psql.Arg(a.Price)),
		im.Returning("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	return e.QueryRow(ctx, sql, args...).Scan(&a.CreatedAt)
}

func (p *pgxAccommodationRepository) Delete(ctx context.Context, id string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("accommodation"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	tag, err := e.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *pgxAccommodationRepository) GetMany(ctx context.Context, ids []string) ([]*Accommodation, error) {
	if len(ids) == 0 {
		return []*Accommodation{}, nil
	}

	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	in := make([]bob.Expression, 0, len(ids))
	for _, id := range ids {
		in = append(in, psql.Arg(id))
	}

	q := psql.Select(
		sm.Columns("id", "type", "price", "created_at"),
		sm.From("accommodation"),
		sm.Where(psql.Quote("id").In(in...)),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Accommodation, error) {
		a := &Accommodation{}
		err := row.Scan(&a.ID, &a.Type, &a.Price, &a.CreatedAt)
		return a, err
	})
}
