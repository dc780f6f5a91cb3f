package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/sr2706/parakram-backend/internal/db"
	"github.com/sr2706/parakram-backend/internal/model"
)

var playerColumns = []any{
	"player.id",
	"player.name",
	"player.phone_number",
	"player.college_name",
	"player.sport_name",
	"player.email",
	"player.id_card_picture",
	"player.team_id",
	"player.accommodation_id",
	"player.created_at",
}

type pgxPlayerRepository struct {
	pool *pgxpool.Pool
}

func NewPgxPlayerRepository(pool *pgxpool.Pool) PlayerRepository {
	return &pgxPlayerRepository{pool: pool}
}

func scanPlayer(row pgx.Row) (*Player, error) {
	player := &Player{}
	err := row.Scan(
		&player.ID,
		&player.Name,
		&player.PhoneNumber,
		&player.CollegeName,
		&player.SportName,
		&player.Email,
		&player.IDCardPicture,
		&player.TeamID,
		&player.AccommodationID,
		&player.CreatedAt,
	)
	return player, err
}

func (p *pgxPlayerRepository) Create(ctx context.Context, player *Player) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("player",
			"id", "name", "phone_number", "college_name", "sport_name",
			"email", "id_card_picture", "team_id", "accommodation_id"),
		im.Values(
			psql.Arg(player.ID),
			psql.Arg(player.Name),
			psql.Arg(player.PhoneNumber),
			psql.Arg(player.CollegeName),
			psql.Arg(player.SportName),
			psql.Arg(player.Email),
			psql.Arg(player.IDCardPicture),
			psql.Arg(player.TeamID),
			psql.Arg(player.AccommodationID),
		),
		im.Returning("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	err = e.QueryRow(ctx, sql, args...).Scan(&player.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrAlreadyExists
		case pgForeignKeyViolation: // team or accommodation is gone
			return ErrNotFound
		}
	}
	return err
}

func (p *pgxPlayerRepository) Delete(ctx context.Context, id string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("player"),
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

func (p *pgxPlayerRepository) Get(ctx context.Context, id string) (*Player, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(playerColumns...),
		sm.From("player"),
		sm.Where(psql.Quote("player", "id").EQ(psql.Arg(id))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	player, err := scanPlayer(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return player, nil
}

func (p *pgxPlayerRepository) GetMany(ctx context.Context, ids []string) ([]*Player, error) {
	if len(ids) == 0 {
		return []*Player{}, nil
	}

	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	in := make([]bob.Expression, 0, len(ids))
	for _, id := range ids {
		in = append(in, psql.Arg(id))
	}

	q := psql.Select(
		sm.Columns(playerColumns...),
		sm.From("player"),
		sm.Where(psql.Quote("player", "id").In(in...)),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Player, error) {
		return scanPlayer(row)
	})
}

func (p *pgxPlayerRepository) ListRegistered(ctx context.Context, sport *string) ([]*Player, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	where := psql.Quote("team", "status").EQ(psql.Arg(model.TeamStatusRegistered))
	if sport != nil {
		where = where.And(psql.Quote("player", "sport_name").EQ(psql.Arg(*sport)))
	}

	q := psql.Select(
		sm.Columns(playerColumns...),
		sm.From("player"),
		sm.InnerJoin("team").On(psql.Quote("team", "id").EQ(psql.Quote("player", "team_id"))),
		sm.Where(where),
		sm.OrderBy("player.created_at"),
		sm.OrderBy("player.id"),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Player, error) {
		return scanPlayer(row)
	})
}

func (p *pgxPlayerRepository) SetAccommodation(ctx context.Context, playerID, accommodationID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("player"),
		um.SetCol("accommodation_id").ToArg(accommodationID),
		um.Where(
			psql.Quote("id").EQ(psql.Arg(playerID)).
				And(psql.Quote("accommodation_id").IsNull()),
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
