package memory

import (
	"context"

	"github.com/sr2706/parakram-backend/internal/model"
	"github.com/sr2706/parakram-backend/internal/repository"
)

type statsRepository struct {
	s *Store
}

func (r *statsRepository) Ping(ctx context.Context) error {
	return r.s.Ping(ctx)
}

func (r *statsRepository) SportCounts(ctx context.Context) ([]*repository.SportCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	bySport := map[string]*repository.SportCount{}
	order := make([]string, 0)
	for _, team := range r.s.teams {
		if team.Status != model.TeamStatusRegistered {
			continue
		}
		c, ok := bySport[team.SportName]
		if !ok {
			c = &repository.SportCount{Sport: team.SportName}
			bySport[team.SportName] = c
			order = append(order, team.SportName)
		}
		c.Teams++
	}
	for _, player := range r.s.players {
		team, ok := r.s.teams[player.TeamID]
		if !ok || team.Status != model.TeamStatusRegistered {
			continue
		}
		bySport[team.SportName].Players++
	}

	out := make([]*repository.SportCount, 0, len(order))
	for _, sport := range order {
		out = append(out, bySport[sport])
	}
	return out, nil
}

func (r *statsRepository) AccommodationCounts(ctx context.Context) ([]*repository.AccommodationCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byType := map[model.AccommodationType]*repository.AccommodationCount{}
	out := make([]*repository.AccommodationCount, 0)
	for _, player := range r.s.players {
		if player.AccommodationID == nil {
			continue
		}
		team, ok := r.s.teams[player.TeamID]
		if !ok || team.Status != model.TeamStatusRegistered {
			continue
		}
		a, ok := r.s.accommodations[*player.AccommodationID]
		if !ok {
			continue
		}
		c, ok := byType[a.Type]
		if !ok {
			c = &repository.AccommodationCount{Type: a.Type}
			byType[a.Type] = c
			out = append(out, c)
		}
		c.Count++
		c.Revenue += a.Price
	}
	return out, nil
}

func (r *statsRepository) PaymentCounts(ctx context.Context) ([]*repository.PaymentCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byStatus := map[model.PaymentStatus]*repository.PaymentCount{}
	out := make([]*repository.PaymentCount, 0)
	for _, pm := range r.s.payments {
		team, ok := r.s.teams[pm.TeamID]
		if !ok || team.Status != model.TeamStatusRegistered {
			continue
		}
		c, ok := byStatus[pm.Status]
		if !ok {
			c = &repository.PaymentCount{Status: pm.Status}
			byStatus[pm.Status] = c
			out = append(out, c)
		}
		c.Count++
		c.Amount += pm.AmountPaid
	}
	return out, nil
}

func (r *statsRepository) UnpaidTeams(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var count int64
	for _, team := range r.s.teams {
		if team.Status == model.TeamStatusRegistered && team.PaymentID == nil {
			count++
		}
	}
	return count, nil
}
