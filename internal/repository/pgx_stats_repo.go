package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/sr2706/parakram-backend/internal/db"
	"github.com/sr2706/parakram-backend/internal/model"
)

type pgxStatsRepository struct {
	pool *pgxpool.Pool
}

func NewPgxStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &pgxStatsRepository{pool: pool}
}

func (p *pgxStatsRepository) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *pgxStatsRepository) SportCounts(ctx context.Context) ([]*SportCount, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("team.sport_name", "count(DISTINCT team.id)", "count(player.id)"),
		sm.From("team"),
		sm.LeftJoin("player").On(psql.Quote("player", "team_id").EQ(psql.Quote("team", "id"))),
		sm.Where(psql.Quote("team", "status").EQ(psql.Arg(model.TeamStatusRegistered))),
		sm.GroupBy("team.sport_name"),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*SportCount, error) {
		c := &SportCount{}
		err := row.Scan(&c.Sport, &c.Teams, &c.Players)
		return c, err
	})
}

func (p *pgxStatsRepository) AccommodationCounts(ctx context.Context) ([]*AccommodationCount, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("accommodation.type", "count(*)", "coalesce(sum(accommodation.price), 0)"),
		sm.From("accommodation"),
		sm.InnerJoin("player").On(psql.Quote("player", "accommodation_id").EQ(psql.Quote("accommodation", "id"))),
		sm.InnerJoin("team").On(psql.Quote("team", "id").EQ(psql.Quote("player", "team_id"))),
		sm.Where(psql.Quote("team", "status").EQ(psql.Arg(model.TeamStatusRegistered))),
		sm.GroupBy("accommodation.type"),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*AccommodationCount, error) {
		c := &AccommodationCount{}
		err := row.Scan(&c.Type, &c.Count, &c.Revenue)
		return c, err
	})
}

func (p *pgxStatsRepository) PaymentCounts(ctx context.Context) ([]*PaymentCount, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("payment.status", "count(*)", "coalesce(sum(payment.amount_paid), 0)"),
		sm.From("payment"),
		sm.InnerJoin("team").On(psql.Quote("team", "id").EQ(psql.Quote("payment", "team_id"))),
		sm.Where(psql.Quote("team", "status").EQ(psql.Arg(model.TeamStatusRegistered))),
		sm.GroupBy("payment.status"),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*PaymentCount, error) {
		c := &PaymentCount{}
		err := row.Scan(&c.Status, &c.Count, &c.Amount)
		return c, err
	})
}

func (p *pgxStatsRepository) UnpaidTeams(ctx context.Context) (int64, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("count(*)"),
		sm.From("team"),
		sm.Where(
			psql.Quote("status").EQ(psql.Arg(model.TeamStatusRegistered)).
				And(psql.Quote("payment_id").IsNull()),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err = e.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
