package service

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"github.com/sr2706/parakram-backend/internal/document"
	"github.com/sr2706/parakram-backend/internal/model"
	"github.com/sr2706/parakram-backend/internal/repository"
	"github.com/sr2706/parakram-backend/internal/storage"
	"github.com/sr2706/parakram-backend/pkg/logger"
	"go.uber.org/zap"
)

// DocumentRenderer turns a complete registration into a document.
type DocumentRenderer interface {
	Render(ctx context.Context, reg *model.Registration) ([]byte, error)
}

type DocumentService struct {
	teams          repository.TeamRepository
	players        repository.PlayerRepository
	accommodations repository.AccommodationRepository
	payments       repository.PaymentRepository

	renderer DocumentRenderer
	files    storage.FileUploader
}

func NewDocumentService(renderer DocumentRenderer, files storage.FileUploader) *DocumentService {
	return &DocumentService{renderer: renderer, files: files}
}

// Registration assembles the tuple handed to the renderer. It refuses teams with
// any unresolved reference or without a payment.
func (d *DocumentService) Registration(ctx context.Context, teamID string) (*model.Registration, *Error) {
	l := logger.FromContext(ctx)

	row, err := d.teams.Get(ctx, teamID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewError(ErrorCodeNotFound, "team not found")
	case err != nil:
		l.Error("failed to get team", zap.String("team_id", teamID), zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to get team")
	}
	if row.Status != model.TeamStatusRegistered {
		return nil, NewError(ErrorCodeRegistrationIncomplete, "team registration is not complete")
	}
	if row.PaymentID == nil {
		return nil, NewError(ErrorCodeRegistrationIncomplete, "team has no payment")
	}

	g := graph{players: d.players, accommodations: d.accommodations, payments: d.payments}
	players, err := g.playersOf(ctx, row.PlayerIDs, true)
	if errors.Is(err, errUnresolved) {
		l.Error("registration has dangling references", zap.String("team_id", teamID), zap.Error(err))
		return nil, NewError(ErrorCodeRegistrationIncomplete, "team registration references missing records")
	}
	if err != nil {
		l.Error("failed to resolve players", zap.String("team_id", teamID), zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to load registration")
	}

	pm, err := d.payments.Get(ctx, *row.PaymentID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewError(ErrorCodeRegistrationIncomplete, "team payment is missing")
	case err != nil:
		l.Error("failed to get payment", zap.String("payment_id", *row.PaymentID), zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to load registration")
	}

	team := toTeam(row)
	team.Players = players
	payment := toPayment(pm)
	team.Payment = payment

	return &model.Registration{Team: team, Players: players, Payment: payment}, nil
}

// Generate renders the registration document, uploads it and records its URL.
func (d *DocumentService) Generate(ctx context.Context, teamID string) (string, *Error) {
	l := logger.FromContext(ctx)
	l.Info("generating registration document", zap.String("team_id", teamID))

	if d.files == nil {
		return "", NewError(ErrorCodeUnavailable, "file uploads are not configured")
	}

	reg, serr := d.Registration(ctx, teamID)
	if serr != nil {
		return "", serr
	}

	data, err := d.renderer.Render(ctx, reg)
	if err != nil {
		l.Error("failed to render document", zap.String("team_id", teamID), zap.Error(err))
		return "", NewError(ErrorCodeUnavailable, "failed to render registration document")
	}

	res, err := d.files.Upload(ctx, document.Key(teamID), document.ContentType, bytes.NewReader(data))
	if err != nil {
		l.Error("failed to upload document", zap.String("team_id", teamID), zap.Error(err))
		return "", NewError(ErrorCodeUnavailable, "failed to store registration document")
	}

	if err = d.teams.SetDocumentURL(ctx, teamID, res.Location); err != nil {
		l.Error("failed to save document url", zap.String("team_id", teamID), zap.Error(err))
		return "", NewError(ErrorCodeUnavailable, "failed to save registration document")
	}

	l.Info("registration document generated", zap.String("team_id", teamID), zap.String("url", res.Location))
	return res.Location, nil
}

func (d *DocumentService) WithTeamRepo(r repository.TeamRepository) *DocumentService {
	d.teams = r
	return d
}

func (d *DocumentService) WithPlayerRepo(r repository.PlayerRepository) *DocumentService {
	d.players = r
	return d
}

func (d *DocumentService) WithAccommodationRepo(r repository.AccommodationRepository) *DocumentService {
	d.accommodations = r
	return d
}

func (d *DocumentService) WithPaymentRepo(r repository.PaymentRepository) *DocumentService {
	d.payments = r
	return d
}
