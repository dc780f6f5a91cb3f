package memory

import (
	"context"
	"time"

	"github.com/sr2706/parakram-backend/internal/model"
	"github.com/sr2706/parakram-backend/internal/repository"
)

type teamRepository struct {
	s *Store
}

func (r *teamRepository) Create(ctx context.Context, team *repository.Team) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.teams[team.ID]; ok {
		return repository.ErrAlreadyExists
	}
	team.CreatedAt = r.s.now()
	team.PlayerIDs = cloneStrings(team.PlayerIDs)
	r.s.teams[team.ID] = cloneTeam(team)
	return nil
}

func (r *teamRepository) Get(ctx context.Context, id string) (*repository.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	team, ok := r.s.teams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneTeam(team), nil
}

func (r *teamRepository) GetForUpdate(ctx context.Context, id string) (*repository.Team, error) {
	return r.Get(ctx, id)
}

func (r *teamRepository) ListRegistered(ctx context.Context, sport *string) ([]*repository.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	teams := make([]*repository.Team, 0)
	for _, team := range r.s.teams {
		if team.Status != model.TeamStatusRegistered {
			continue
		}
		if sport != nil && team.SportName != *sport {
			continue
		}
		teams = append(teams, cloneTeam(team))
	}
	sortByCreated(teams, func(t *repository.Team) time.Time { return t.CreatedAt }, func(t *repository.Team) string { return t.ID })
	return teams, nil
}

func (r *teamRepository) Finalize(ctx context.Context, id string, playerIDs []string) (*repository.Team, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	team, ok := r.s.teams[id]
	if !ok || team.Status != model.TeamStatusProvisional {
		return nil, repository.ErrConflict
	}
	team.PlayerIDs = cloneStrings(playerIDs)
	team.Status = model.TeamStatusRegistered
	return cloneTeam(team), nil
}

func (r *teamRepository) SetStatus(ctx context.Context, id string, status model.TeamStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	team, ok := r.s.teams[id]
	if !ok {
		return repository.ErrNotFound
	}
	team.Status = status
	return nil
}

func (r *teamRepository) SetPayment(ctx context.Context, id, paymentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	team, ok := r.s.teams[id]
	if !ok {
		return repository.ErrNotFound
	}
	if team.PaymentID != nil {
		return repository.ErrAlreadyExists
	}
	team.PaymentID = &paymentID
	return nil
}

func (r *teamRepository) SetDocumentURL(ctx context.Context, id, url string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	team, ok := r.s.teams[id]
	if !ok {
		return repository.ErrNotFound
	}
	team.DocumentURL = &url
	return nil
}
