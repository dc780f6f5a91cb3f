package memory

import (
	"context"
	"time"

	"github.com/sr2706/parakram-backend/internal/model"
	"github.com/sr2706/parakram-backend/internal/repository"
)

type paymentRepository struct {
	s *Store
}

func (r *paymentRepository) Create(ctx context.Context, pm *repository.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.teams[pm.TeamID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.payments[pm.ID]; ok {
		return repository.ErrAlreadyExists
	}
	for _, existing := range r.s.payments {
		if existing.TeamID == pm.TeamID {
			return repository.ErrAlreadyExists
		}
	}
	now := r.s.now()
	pm.CreatedAt, pm.UpdatedAt = now, now
	c := *pm
	r.s.payments[pm.ID] = &c
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*repository.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	pm, ok := r.s.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *pm
	return &c, nil
}

func (r *paymentRepository) GetByTeam(ctx context.Context, teamID string) (*repository.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, pm := range r.s.payments {
		if pm.TeamID == teamID {
			c := *pm
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *paymentRepository) List(ctx context.Context) ([]*repository.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*repository.Payment, 0, len(r.s.payments))
	for _, pm := range r.s.payments {
		c := *pm
		out = append(out, &c)
	}
	sortByCreated(out, func(p *repository.Payment) time.Time { return p.CreatedAt }, func(p *repository.Payment) string { return p.ID })
	return out, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id string, from, to model.PaymentStatus, at time.Time) (*repository.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	pm, ok := r.s.payments[id]
	if !ok || pm.Status != from {
		return nil, repository.ErrConflict
	}
	pm.Status = to
	pm.UpdatedAt = at
	c := *pm
	return &c, nil
}
