package memory

import (
	"context"

	"github.com/sr2706/parakram-backend/internal/repository"
)

type accommodationRepository struct {
	s *Store
}

func (r *accommodationRepository) Create(ctx context.Context, a *repository.Accommodation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accommodations[a.ID]; ok {
		return repository.ErrAlreadyExists
	}
	a.CreatedAt = r.s.now()
	c := *a
	r.s.accommodations[a.ID] = &c
	return nil
}

func (r *accommodationRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accommodations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.accommodations, id)
	return nil
}

func (r *accommodationRepository) GetMany(ctx context.Context, ids []string) ([]*repository.Accommodation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*repository.Accommodation, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.s.accommodations[id]; ok {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}
