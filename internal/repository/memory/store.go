// Package memory provides mutex guarded, map backed implementations of the
// repository interfaces. Every method is atomic on its own, but the transactor
// runs callbacks inline and never rolls back: writes made before a callback
// returns an error stay in the store. Callbacks must either fail before their
// first write or undo their own writes.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sr2706/parakram-backend/internal/repository"
)

type Store struct {
	mu    sync.RWMutex
	clock clockwork.Clock

	teams          map[string]*repository.Team
	players        map[string]*repository.Player
	accommodations map[string]*repository.Accommodation
	payments       map[string]*repository.Payment
	counters       map[string]int64
}

func NewStore(clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		clock:          clock,
		teams:          map[string]*repository.Team{},
		players:        map[string]*repository.Player{},
		accommodations: map[string]*repository.Accommodation{},
		payments:       map[string]*repository.Payment{},
		counters:       map[string]int64{},
	}
}

func (s *Store) Teams() repository.TeamRepository                   { return &teamRepository{s} }
func (s *Store) Players() repository.PlayerRepository               { return &playerRepository{s} }
func (s *Store) Accommodations() repository.AccommodationRepository { return &accommodationRepository{s} }
func (s *Store) Payments() repository.PaymentRepository             { return &paymentRepository{s} }
func (s *Store) Counters() repository.CounterRepository             { return &counterRepository{s} }
func (s *Store) Stats() repository.StatsRepository                  { return &statsRepository{s} }

// WithinTransaction runs fn inline. An error from fn is returned as is and
// nothing fn wrote is reverted.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) now() time.Time {
	return s.clock.Now().UTC()
}

func cloneStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	out := make([]string, len(v))
	copy(out, v)
	return out
}

func cloneStringPtr(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTeam(t *repository.Team) *repository.Team {
	c := *t
	c.PlayerIDs = cloneStrings(t.PlayerIDs)
	c.PaymentID = cloneStringPtr(t.PaymentID)
	c.DocumentURL = cloneStringPtr(t.DocumentURL)
	return &c
}

func clonePlayer(p *repository.Player) *repository.Player {
	c := *p
	c.Email = cloneStringPtr(p.Email)
	c.IDCardPicture = cloneStringPtr(p.IDCardPicture)
	c.AccommodationID = cloneStringPtr(p.AccommodationID)
	return &c
}

func sortByCreated[T any](items []T, created func(T) time.Time, id func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.Before(cj)
		}
		return id(items[i]) < id(items[j])
	})
}
