package memory

import (
	"context"
	"time"

	"github.com/sr2706/parakram-backend/internal/model"
	"github.com/sr2706/parakram-backend/internal/repository"
)

type playerRepository struct {
	s *Store
}

func (r *playerRepository) Create(ctx context.Context, player *repository.Player) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.players[player.ID]; ok {
		return repository.ErrAlreadyExists
	}
	if _, ok := r.s.teams[player.TeamID]; !ok {
		return repository.ErrNotFound
	}
	if player.AccommodationID != nil {
		if _, ok := r.s.accommodations[*player.AccommodationID]; !ok {
			return repository.ErrNotFound
		}
		if r.accommodationTaken(*player.AccommodationID) {
			return repository.ErrAlreadyExists
		}
	}
	player.CreatedAt = r.s.now()
	r.s.players[player.ID] = clonePlayer(player)
	return nil
}

// accommodationTaken must be called with the lock held.
func (r *playerRepository) accommodationTaken(id string) bool {
	for _, p := range r.s.players {
		if p.AccommodationID != nil && *p.AccommodationID == id {
			return true
		}
	}
	return false
}

func (r *playerRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.players[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.players, id)
	return nil
}

func (r *playerRepository) Get(ctx context.Context, id string) (*repository.Player, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	player, ok := r.s.players[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clonePlayer(player), nil
}

func (r *playerRepository) GetMany(ctx context.Context, ids []string) ([]*repository.Player, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	players := make([]*repository.Player, 0, len(ids))
	for _, id := range ids {
		if player, ok := r.s.players[id]; ok {
			players = append(players, clonePlayer(player))
		}
	}
	return players, nil
}

func (r *playerRepository) ListRegistered(ctx context.Context, sport *string) ([]*repository.Player, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	players := make([]*repository.Player, 0)
	for _, player := range r.s.players {
		team, ok := r.s.teams[player.TeamID]
		if !ok || team.Status != model.TeamStatusRegistered {
			continue
		}
		if sport != nil && player.SportName != *sport {
			continue
		}
		players = append(players, clonePlayer(player))
	}
	sortByCreated(players, func(p *repository.Player) time.Time { return p.CreatedAt }, func(p *repository.Player) string { return p.ID })
	return players, nil
}

func (r *playerRepository) SetAccommodation(ctx context.Context, playerID, accommodationID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	player, ok := r.s.players[playerID]
	if !ok {
		return repository.ErrNotFound
	}
	if player.AccommodationID != nil || r.accommodationTaken(accommodationID) {
		return repository.ErrAlreadyExists
	}
	player.AccommodationID = &accommodationID
	return nil
}
