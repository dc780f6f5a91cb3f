package memory

import "context"

type counterRepository struct {
	s *Store
}

func (r *counterRepository) Next(ctx context.Context, kind string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.counters[kind]++
	return r.s.counters[kind], nil
}
