package service

import (
	"context"
	"fmt"
	"io"
	"math"
	"mime"
	"path"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/sr2706/parakram-backend/internal/db"
	"github.com/sr2706/parakram-backend/internal/events"
	"github.com/sr2706/parakram-backend/internal/model"
	"github.com/sr2706/parakram-backend/internal/repository"
	"github.com/sr2706/parakram-backend/internal/storage"
	"github.com/sr2706/parakram-backend/pkg/logger"
	"go.uber.org/zap"
)

const MaxScreenshotSize = 5 << 20

var screenshotTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"image/webp":      true,
	"application/pdf": true,
}

// ScreenshotUpload is a payment proof received from the client.
type ScreenshotUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type PaymentService struct {
	tx db.Transactor

	teams          repository.TeamRepository
	players        repository.PlayerRepository
	accommodations repository.AccommodationRepository
	payments       repository.PaymentRepository

	files    storage.FileUploader
	validate *validator.Validate
	clock    clockwork.Clock
	events   events.Publisher
}

func NewPaymentService(tx db.Transactor) *PaymentService {
	return &PaymentService{
		tx:       tx,
		validate: NewValidator(),
		clock:    clockwork.NewRealClock(),
	}
}

// AttachPayment links a pending payment to a registered team. The check for an
// existing payment and the write run in one transaction, and the store's
// uniqueness on team_id decides concurrent attempts.
func (p *PaymentService) AttachPayment(ctx context.Context, teamID, transactionID string, amountPaid float64, screenshot model.ScreenshotRef) (*model.Payment, *Error) {
	l := logger.FromContext(ctx)
	teamID = strings.TrimSpace(teamID)
	transactionID = strings.TrimSpace(transactionID)

	l.Info("attaching payment", zap.String("team_id", teamID), zap.String("transaction_id", transactionID))

	if serr := checkPaymentInput(teamID, transactionID, amountPaid); serr != nil {
		return nil, serr
	}
	if err := p.validate.Struct(&screenshot); err != nil {
		return nil, NewError(ErrorCodeInvalidInput, validationMessage("payment_screenshot", err))
	}

	now := p.clock.Now()
	row := &repository.Payment{
		ID:                    uuid.NewString(),
		TeamID:                teamID,
		TransactionID:         transactionID,
		AmountPaid:            amountPaid,
		PaymentDate:           now,
		ScreenshotURL:         screenshot.URL,
		ScreenshotKey:         screenshot.Key,
		ScreenshotContentType: screenshot.ContentType,
		ScreenshotSize:        screenshot.Size,
		Status:                model.PaymentStatusPending,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	err := p.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		team, err := p.teams.GetForUpdate(txCtx, teamID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewError(ErrorCodeNotFound, "team not found")
		case err != nil:
			l.Error("failed to get team", zap.String("team_id", teamID), zap.Error(err))
			return NewError(ErrorCodeUnavailable, "failed to get team")
		}
		if team.Status != model.TeamStatusRegistered {
			return NewError(ErrorCodeNotFound, "team not found")
		}
		if team.PaymentID != nil {
			return NewError(ErrorCodeDuplicatePayment, "payment already exists for this team")
		}

		err = p.payments.Create(txCtx, row)
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			return NewError(ErrorCodeDuplicatePayment, "payment already exists for this team")
		case errors.Is(err, repository.ErrNotFound):
			return NewError(ErrorCodeNotFound, "team not found")
		case err != nil:
			l.Error("failed to create payment", zap.String("team_id", teamID), zap.Error(err))
			return NewError(ErrorCodeUnavailable, "failed to create payment")
		}

		err = p.teams.SetPayment(txCtx, teamID, row.ID)
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			return NewError(ErrorCodeDuplicatePayment, "payment already exists for this team")
		case err != nil:
			l.Error("failed to link payment", zap.String("team_id", teamID), zap.Error(err))
			return NewError(ErrorCodeUnavailable, "failed to link payment")
		}
		return nil
	})

	var res *Error
	if errors.As(err, &res) {
		l.Warn("payment not attached", zap.String("team_id", teamID), zap.String("code", string(res.Code)))
		return nil, res
	}
	if err != nil {
		l.Error("payment transaction failed", zap.String("team_id", teamID), zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to attach payment")
	}

	l.Info("payment attached", zap.String("team_id", teamID), zap.String("payment_id", row.ID))

	publish(ctx, p.events, events.New(events.TypePaymentAttached, events.PaymentAttached{
		PaymentID:     row.ID,
		TeamID:        teamID,
		TransactionID: transactionID,
		AmountPaid:    amountPaid,
	}, p.clock.Now()))

	return toPayment(row), nil
}

// SubmitPayment stores the screenshot and attaches the payment. The uploaded
// object is removed again when the payment is refused.
func (p *PaymentService) SubmitPayment(ctx context.Context, teamID, transactionID string, amountPaid float64, upload *ScreenshotUpload) (*model.Payment, *Error) {
	l := logger.FromContext(ctx)
	teamID = strings.TrimSpace(teamID)

	if serr := checkPaymentInput(teamID, strings.TrimSpace(transactionID), amountPaid); serr != nil {
		return nil, serr
	}
	if serr := p.checkPayable(ctx, teamID); serr != nil {
		return nil, serr
	}

	ref, serr := p.storeScreenshot(ctx, teamID, upload)
	if serr != nil {
		return nil, serr
	}

	payment, serr := p.AttachPayment(ctx, teamID, transactionID, amountPaid, *ref)
	if serr != nil {
		if err := p.files.Delete(context.WithoutCancel(ctx), ref.Key); err != nil {
			l.Warn("failed to remove orphaned screenshot", zap.String("key", ref.Key), zap.Error(err))
		}
		return nil, serr
	}
	return payment, nil
}

// checkPaymentInput validates the fields that need no store access. NaN and
// infinities are rejected since they cannot be summed or encoded.
func checkPaymentInput(teamID, transactionID string, amountPaid float64) *Error {
	switch {
	case teamID == "":
		return NewError(ErrorCodeInvalidInput, "team_id is required")
	case transactionID == "":
		return NewError(ErrorCodeInvalidInput, "transaction_id is required")
	case math.IsNaN(amountPaid) || math.IsInf(amountPaid, 0):
		return NewError(ErrorCodeInvalidInput, "amount_paid must be a finite number")
	case amountPaid < 0:
		return NewError(ErrorCodeInvalidInput, "amount_paid must not be negative")
	}
	return nil
}

// checkPayable refuses early when the team cannot take a payment, so no
// screenshot is stored for it. AttachPayment repeats the check under lock.
func (p *PaymentService) checkPayable(ctx context.Context, teamID string) *Error {
	team, err := p.teams.Get(ctx, teamID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NewError(ErrorCodeNotFound, "team not found")
	case err != nil:
		logger.FromContext(ctx).Error("failed to get team", zap.String("team_id", teamID), zap.Error(err))
		return NewError(ErrorCodeUnavailable, "failed to get team")
	case team.Status != model.TeamStatusRegistered:
		return NewError(ErrorCodeNotFound, "team not found")
	case team.PaymentID != nil:
		return NewError(ErrorCodeDuplicatePayment, "payment already exists for this team")
	}
	return nil
}

func (p *PaymentService) storeScreenshot(ctx context.Context, teamID string, upload *ScreenshotUpload) (*model.ScreenshotRef, *Error) {
	l := logger.FromContext(ctx)

	if p.files == nil {
		return nil, NewError(ErrorCodeUnavailable, "file uploads are not configured")
	}
	if teamID == "" {
		return nil, NewError(ErrorCodeInvalidInput, "team_id is required")
	}
	if upload == nil || upload.Body == nil {
		return nil, NewError(ErrorCodeInvalidInput, "payment_screenshot is required")
	}
	if upload.Size > MaxScreenshotSize {
		return nil, NewError(ErrorCodeInvalidInput, fmt.Sprintf("payment_screenshot exceeds %d bytes", MaxScreenshotSize))
	}

	contentType, _, err := mime.ParseMediaType(upload.ContentType)
	if err != nil || !screenshotTypes[contentType] {
		return nil, NewError(ErrorCodeInvalidInput, "payment_screenshot must be a png, jpeg, webp or pdf file")
	}

	key := fmt.Sprintf("screenshots/%s/%s%s", teamID, uuid.NewString(), strings.ToLower(path.Ext(upload.Filename)))
	res, err := p.files.Upload(ctx, key, contentType, io.LimitReader(upload.Body, MaxScreenshotSize))
	if err != nil {
		l.Error("failed to upload screenshot", zap.String("key", key), zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to store payment screenshot")
	}

	return &model.ScreenshotRef{
		URL:         res.Location,
		Key:         res.Key,
		ContentType: contentType,
		Size:        upload.Size,
	}, nil
}

// SetPaymentStatus applies an administrator decision. Only pending payments move.
func (p *PaymentService) SetPaymentStatus(ctx context.Context, paymentID string, status model.PaymentStatus) (*model.Payment, *Error) {
	l := logger.FromContext(ctx)
	l.Info("setting payment status", zap.String("payment_id", paymentID), zap.String("status", string(status)))

	if !status.Valid() {
		return nil, NewError(ErrorCodeInvalidInput, fmt.Sprintf("unknown payment status %q", status))
	}

	current, err := p.payments.Get(ctx, paymentID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewError(ErrorCodeNotFound, "payment not found")
	case err != nil:
		l.Error("failed to get payment", zap.String("payment_id", paymentID), zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to get payment")
	}

	if !current.Status.CanTransition(status) {
		return nil, NewError(ErrorCodeInvalidTransition,
			fmt.Sprintf("cannot change payment status from %s to %s", current.Status, status))
	}

	updated, err := p.payments.UpdateStatus(ctx, paymentID, current.Status, status, p.clock.Now())
	switch {
	case errors.Is(err, repository.ErrConflict):
		return nil, NewError(ErrorCodeInvalidTransition, "payment status changed concurrently")
	case err != nil:
		l.Error("failed to update payment status", zap.String("payment_id", paymentID), zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to update payment status")
	}

	publish(ctx, p.events, events.New(events.TypePaymentStatusChanged, events.PaymentStatusChanged{
		PaymentID: paymentID,
		TeamID:    updated.TeamID,
		From:      string(current.Status),
		To:        string(status),
	}, p.clock.Now()))

	return toPayment(updated), nil
}

// ListPayments returns payments of registered teams, each with its team and players.
func (p *PaymentService) ListPayments(ctx context.Context) ([]*model.Payment, *Error) {
	l := logger.FromContext(ctx)

	rows, err := p.payments.List(ctx)
	if err != nil {
		l.Error("failed to list payments", zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to list payments")
	}

	teamRows, err := p.teams.ListRegistered(ctx, nil)
	if err != nil {
		l.Error("failed to list teams", zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to list payments")
	}
	g := graph{players: p.players, accommodations: p.accommodations, payments: p.payments}
	teams, err := g.teams(ctx, teamRows)
	if err != nil {
		l.Error("failed to resolve teams", zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to list payments")
	}
	byID := make(map[string]*model.Team, len(teams))
	for _, team := range teams {
		team.Payment = nil
		byID[team.ID] = team
	}

	payments := make([]*model.Payment, 0, len(rows))
	for _, row := range rows {
		team, ok := byID[row.TeamID]
		if !ok {
			continue
		}
		pm := toPayment(row)
		pm.Team = team
		payments = append(payments, pm)
	}
	return payments, nil
}

func (p *PaymentService) GetPaymentScreenshot(ctx context.Context, teamID string) (*model.PaymentScreenshot, *Error) {
	l := logger.FromContext(ctx)

	team, err := p.teams.Get(ctx, teamID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && team.Status != model.TeamStatusRegistered) {
		return nil, NewError(ErrorCodeNotFound, "team not found")
	}
	if err != nil {
		l.Error("failed to get team", zap.String("team_id", teamID), zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to get team")
	}

	pm, err := p.payments.GetByTeam(ctx, teamID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewError(ErrorCodeNotFound, "payment not found for this team")
	case err != nil:
		l.Error("failed to get payment", zap.String("team_id", teamID), zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to get payment")
	}

	return &model.PaymentScreenshot{
		TeamID:        teamID,
		PaymentID:     pm.ID,
		ScreenshotURL: pm.ScreenshotURL,
	}, nil
}

func (p *PaymentService) WithTeamRepo(r repository.TeamRepository) *PaymentService {
	p.teams = r
	return p
}

func (p *PaymentService) WithPlayerRepo(r repository.PlayerRepository) *PaymentService {
	p.players = r
	return p
}

func (p *PaymentService) WithAccommodationRepo(r repository.AccommodationRepository) *PaymentService {
	p.accommodations = r
	return p
}

func (p *PaymentService) WithPaymentRepo(r repository.PaymentRepository) *PaymentService {
	p.payments = r
	return p
}

func (p *PaymentService) WithFileUploader(f storage.FileUploader) *PaymentService {
	p.files = f
	return p
}

func (p *PaymentService) WithClock(c clockwork.Clock) *PaymentService {
	p.clock = c
	return p
}

func (p *PaymentService) WithPublisher(pub events.Publisher) *PaymentService {
	p.events = pub
	return p
}
