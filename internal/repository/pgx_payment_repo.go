package repository

import (
	"context"
	"time"

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

var paymentColumns = []any{
	"id",
	"team_id",
	"transaction_id",
	"amount_paid",
	"payment_date",
	"screenshot_url",
	"screenshot_key",
	"screenshot_content_type",
	"screenshot_size",
	"status",
	"created_at",
	"updated_at",
}

type pgxPaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPgxPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &pgxPaymentRepository{pool: pool}
}

func scanPayment(row pgx.Row) (*Payment, error) {
	pm := &Payment{}
	err := row.Scan(
		&pm.ID,
		&pm.TeamID,
		&pm.TransactionID,
		&pm.AmountPaid,
		&pm.PaymentDate,
		&pm.ScreenshotURL,
		&pm.ScreenshotKey,
		&pm.ScreenshotContentType,
		&pm.ScreenshotSize,
		&pm.Status,
		&pm.CreatedAt,
		&pm.UpdatedAt,
	)
	return pm, err
}

func (p *pgxPaymentRepository) Create(ctx context.Context, pm *Payment) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("payment",
			"id", "team_id", "transaction_id", "amount_paid", "payment_date",
			"screenshot_url", "screenshot_key", "screenshot_content_type", "screenshot_size", "status"),
		im.Values(
			psql.Arg(pm.ID),
			psql.Arg(pm.TeamID),
			psql.Arg(pm.TransactionID),
			psql.Arg(pm.AmountPaid),
			psql.Arg(pm.PaymentDate),
			psql.Arg(pm.ScreenshotURL),
			psql.Arg(pm.ScreenshotKey),
			psql.Arg(pm.ScreenshotContentType),
			psql.Arg(pm.ScreenshotSize),
			psql.Arg(pm.Status),
		),
		im.Returning("created_at", "updated_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	err = e.QueryRow(ctx, sql, args...).Scan(&pm.CreatedAt, &pm.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation: // one payment per team
			return ErrAlreadyExists
		case pgForeignKeyViolation:
			return ErrNotFound
		}
	}
	return err
}

func (p *pgxPaymentRepository) Get(ctx context.Context, id string) (*Payment, error) {
	return p.getBy(ctx, "id", id)
}

func (p *pgxPaymentRepository) GetByTeam(ctx context.Context, teamID string) (*Payment, error) {
	return p.getBy(ctx, "team_id", teamID)
}

func (p *pgxPaymentRepository) getBy(ctx context.Context, column, value string) (*Payment, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(paymentColumns...),
		sm.From("payment"),
		sm.Where(psql.Quote(column).EQ(psql.Arg(value))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	pm, err := scanPayment(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return pm, nil
}

func (p *pgxPaymentRepository) List(ctx context.Context) ([]*Payment, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(paymentColumns...),
		sm.From("payment"),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Payment, error) {
		return scanPayment(row)
	})
}

func (p *pgxPaymentRepository) UpdateStatus(ctx context.Context, id string, from, to model.PaymentStatus, at time.Time) (*Payment, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("payment"),
		um.SetCol("status").ToArg(to),
		um.SetCol("updated_at").ToArg(at),
		um.Where(
			psql.Quote("id").EQ(psql.Arg(id)).
				And(psql.Quote("status").EQ(psql.Arg(from))),
		),
		um.Returning(paymentColumns...),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	pm, err := scanPayment(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return pm, nil
}
