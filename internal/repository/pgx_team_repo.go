package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/sr2706/parakram-backend/internal/db"
	"github.com/sr2706/parakram-backend/internal/model"
)

var teamColumns = []any{"id", "sport_name", "status", "player_ids", "payment_id", "document_url", "created_at"}

type pgxTeamRepository struct {
	pool *pgxpool.Pool
}

func NewPgxTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &pgxTeamRepository{pool: pool}
}

func scanTeam(row pgx.Row) (*Team, error) {
	team := &Team{}
	err := row.Scan(
		&team.ID,
		&team.SportName,
		&team.Status,
		&team.PlayerIDs,
		&team.PaymentID,
		&team.DocumentURL,
		&team.CreatedAt,
	)
	return team, err
}

func (p *pgxTeamRepository) Create(ctx context.Context, team *Team) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	if team.PlayerIDs == nil {
		team.PlayerIDs = []string{}
	}

	q := psql.Insert(
		im.Into("team", "id", "sport_name", "status", "player_ids"),
		im.Values(psql.Arg(team.ID), psql.Arg(team.SportName), psql.Arg(team.Status), psql.Arg(team.PlayerIDs)),
		im.Returning("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	err = e.QueryRow(ctx, sql, args...).Scan(&team.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrAlreadyExists
	}

	return err
}

func (p *pgxTeamRepository) Get(ctx context.Context, id string) (*Team, error) {
	return p.get(ctx, id, false)
}

func (p *pgxTeamRepository) GetForUpdate(ctx context.Context, id string) (*Team, error) {
	return p.get(ctx, id, true)
}

func (p *pgxTeamRepository) get(ctx context.Context, id string, lock bool) (*Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(teamColumns...),
		sm.From("team"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	if lock {
		q.Apply(sm.ForUpdate("team"))
	}

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	team, err := scanTeam(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return team, nil
}

func (p *pgxTeamRepository) ListRegistered(ctx context.Context, sport *string) ([]*Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	where := psql.Quote("status").EQ(psql.Arg(model.TeamStatusRegistered))
	if sport != nil {
		where = where.And(psql.Quote("sport_name").EQ(psql.Arg(*sport)))
	}

	q := psql.Select(
		sm.Columns(teamColumns...),
		sm.From("team"),
		sm.Where(where),
		sm.OrderBy("created_at"),
		sm.OrderBy("id"),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Team, error) {
		return scanTeam(row)
	})
}

func (p *pgxTeamRepository) Finalize(ctx context.Context, id string, playerIDs []string) (*Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("team"),
		um.SetCol("player_ids").ToArg(playerIDs),
		um.SetCol("status").ToArg(model.TeamStatusRegistered),
		um.Where(
			psql.Quote("id").EQ(psql.Arg(id)).
				And(psql.Quote("status").EQ(psql.Arg(model.TeamStatusProvisional))),
		),
		um.Returning(teamColumns...),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	team, err := scanTeam(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return team, nil
}

func (p *pgxTeamRepository) SetStatus(ctx context.Context, id string, status model.TeamStatus) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("team"),
		um.SetCol("status").ToArg(status),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
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

func (p *pgxTeamRepository) SetPayment(ctx context.Context, id, paymentID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("team"),
		um.SetCol("payment_id").ToArg(paymentID),
		um.Where(
			psql.Quote("id").EQ(psql.Arg(id)).
				And(psql.Quote("payment_id").IsNull()),
		),
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
		return ErrAlreadyExists
	}
	return nil
}

func (p *pgxTeamRepository) SetDocumentURL(ctx context.Context, id, url string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("team"),
		um.SetCol("document_url").ToArg(url),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
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
