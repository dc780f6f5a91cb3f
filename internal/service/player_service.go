package service

import (
	"context"
	"strings"

	"github.com/sr2706/parakram-backend/internal/model"
	"github.com/sr2706/parakram-backend/internal/repository"
	"github.com/sr2706/parakram-backend/pkg/logger"
	"go.uber.org/zap"
)

type PlayerService struct {
	players        repository.PlayerRepository
	accommodations repository.AccommodationRepository
}

func NewPlayerService() *PlayerService {
	return &PlayerService{}
}

func (p *PlayerService) ListPlayers(ctx context.Context) ([]*model.Player, *Error) {
	return p.list(ctx, nil)
}

func (p *PlayerService) PlayersBySport(ctx context.Context, sport string) ([]*model.Player, *Error) {
	sport = strings.TrimSpace(sport)
	if sport == "" {
		return nil, NewError(ErrorCodeInvalidInput, "sport is required")
	}
	return p.list(ctx, &sport)
}

func (p *PlayerService) list(ctx context.Context, sport *string) ([]*model.Player, *Error) {
	l := logger.FromContext(ctx)

	rows, err := p.players.ListRegistered(ctx, sport)
	if err != nil {
		l.Error("failed to list players", zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to list players")
	}

	players := make([]*model.Player, 0, len(rows))
	for _, row := range rows {
		players = append(players, toPlayer(row))
	}

	g := graph{players: p.players, accommodations: p.accommodations}
	if err = g.attachAccommodations(ctx, players, false); err != nil {
		l.Error("failed to resolve accommodations", zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to list players")
	}
	return players, nil
}

func (p *PlayerService) WithPlayerRepo(r repository.PlayerRepository) *PlayerService {
	p.players = r
	return p
}

func (p *PlayerService) WithAccommodationRepo(r repository.AccommodationRepository) *PlayerService {
	p.accommodations = r
	return p
}
