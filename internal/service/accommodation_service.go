package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/sr2706/parakram-backend/internal/db"
	"github.com/sr2706/parakram-backend/internal/model"
	"github.com/sr2706/parakram-backend/internal/repository"
	"github.com/sr2706/parakram-backend/pkg/logger"
	"go.uber.org/zap"
)

type AccommodationService struct {
	tx db.Transactor

	teams          repository.TeamRepository
	players        repository.PlayerRepository
	accommodations repository.AccommodationRepository

	clock clockwork.Clock
}

func NewAccommodationService(tx db.Transactor) *AccommodationService {
	return &AccommodationService{
		tx:    tx,
		clock: clockwork.NewRealClock(),
	}
}

func (a *AccommodationService) Types() []model.AccommodationOption {
	return model.AccommodationCatalog()
}

// Select books accommodation for a registered player who has none yet.
func (a *AccommodationService) Select(ctx context.Context, playerID string, accType model.AccommodationType) (*model.Player, *Error) {
	l := logger.FromContext(ctx)
	l.Info("selecting accommodation", zap.String("player_id", playerID), zap.String("type", string(accType)))

	price, ok := accType.Price()
	if !ok {
		return nil, NewError(ErrorCodeInvalidInput, fmt.Sprintf("unknown accommodation type %q", accType))
	}

	row, err := a.players.Get(ctx, playerID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewError(ErrorCodeNotFound, "player not found")
	case err != nil:
		l.Error("failed to get player", zap.String("player_id", playerID), zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to get player")
	}

	team, err := a.teams.Get(ctx, row.TeamID)
	if err != nil || team.Status != model.TeamStatusRegistered {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			l.Error("failed to get team", zap.String("team_id", row.TeamID), zap.Error(err))
			return nil, NewError(ErrorCodeUnavailable, "failed to get player")
		}
		return nil, NewError(ErrorCodeNotFound, "player not found")
	}
	if row.AccommodationID != nil {
		return nil, NewError(ErrorCodeAccommodationAssigned, "player already has accommodation")
	}

	acc := &repository.Accommodation{
		ID:        uuid.NewString(),
		Type:      accType,
		Price:     price,
		CreatedAt: a.clock.Now(),
	}

	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := a.accommodations.Create(txCtx, acc); err != nil {
			return errors.Wrap(err, "create accommodation")
		}

		err := a.players.SetAccommodation(txCtx, playerID, acc.ID)
		if errors.Is(err, repository.ErrAlreadyExists) {
			if derr := a.accommodations.Delete(txCtx, acc.ID); derr != nil {
				l.Warn("failed to remove unused accommodation", zap.String("accommodation_id", acc.ID), zap.Error(derr))
			}
			return NewError(ErrorCodeAccommodationAssigned, "player already has accommodation")
		}
		return errors.Wrap(err, "link accommodation")
	})

	var res *Error
	if errors.As(err, &res) {
		return nil, res
	}
	if err != nil {
		l.Error("failed to select accommodation", zap.String("player_id", playerID), zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to select accommodation")
	}

	player := toPlayer(row)
	player.AccommodationID = &acc.ID
	player.Accommodation = toAccommodation(acc)
	return player, nil
}

// TeamCost sums accommodation prices over the team's players.
func (a *AccommodationService) TeamCost(ctx context.Context, teamID string) (*model.AccommodationCost, *Error) {
	l := logger.FromContext(ctx)

	team, err := a.teams.Get(ctx, teamID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && team.Status != model.TeamStatusRegistered) {
		return nil, NewError(ErrorCodeNotFound, "team not found")
	}
	if err != nil {
		l.Error("failed to get team", zap.String("team_id", teamID), zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to get team")
	}

	g := graph{players: a.players, accommodations: a.accommodations}
	players, err := g.playersOf(ctx, team.PlayerIDs, false)
	if err != nil {
		l.Error("failed to resolve players", zap.String("team_id", teamID), zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to compute accommodation cost")
	}

	cost := &model.AccommodationCost{TeamID: teamID}
	for _, p := range players {
		if p.Accommodation == nil {
			continue
		}
		cost.PlayersWithAccommodation++
		cost.TotalCost += p.Accommodation.Price
	}
	return cost, nil
}

func (a *AccommodationService) WithTeamRepo(r repository.TeamRepository) *AccommodationService {
	a.teams = r
	return a
}

func (a *AccommodationService) WithPlayerRepo(r repository.PlayerRepository) *AccommodationService {
	a.players = r
	return a
}

func (a *AccommodationService) WithAccommodationRepo(r repository.AccommodationRepository) *AccommodationService {
	a.accommodations = r
	return a
}

func (a *AccommodationService) WithClock(c clockwork.Clock) *AccommodationService {
	a.clock = c
	return a
}
