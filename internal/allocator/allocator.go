// Package allocator hands out durable, human-readable identifiers for teams and
// players. Every identifier comes from a single increment on a persisted
// per-kind counter, so two callers never receive the same value.
package allocator

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sr2706/parakram-backend/internal/repository"
)

const (
	KindTeam   = "team"
	KindPlayer = "player"
)

const (
	DefaultTeamPrefix   = "TM"
	DefaultPlayerPrefix = "PL"
	DefaultWidth        = 4
	MaxWidth            = 12
)

// Error is returned when the counter store could not produce a value.
type Error struct {
	Kind string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("allocate %s id: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func IsAllocationError(err error) bool {
	var allocErr *Error
	return errors.As(err, &allocErr)
}

type Options struct {
	TeamPrefix   string
	PlayerPrefix string
	Width        int
}

type Allocator struct {
	counters repository.CounterRepository

	teamPrefix   string
	playerPrefix string
	width        int
}

func New(counters repository.CounterRepository, opts Options) *Allocator {
	a := &Allocator{
		counters:     counters,
		teamPrefix:   opts.TeamPrefix,
		playerPrefix: opts.PlayerPrefix,
		width:        opts.Width,
	}
	if a.teamPrefix == "" {
		a.teamPrefix = DefaultTeamPrefix
	}
	if a.playerPrefix == "" {
		a.playerPrefix = DefaultPlayerPrefix
	}
	if a.width <= 0 || a.width > MaxWidth {
		a.width = DefaultWidth
	}
	return a
}

func (a *Allocator) AllocateTeamID(ctx context.Context) (string, error) {
	return a.allocate(ctx, KindTeam, a.teamPrefix)
}

func (a *Allocator) AllocatePlayerID(ctx context.Context) (string, error) {
	return a.allocate(ctx, KindPlayer, a.playerPrefix)
}

func (a *Allocator) allocate(ctx context.Context, kind, prefix string) (string, error) {
	seq, err := a.counters.Next(ctx, kind)
	if err != nil {
		return "", &Error{Kind: kind, Err: errors.Wrap(err, "next counter value")}
	}
	if seq <= 0 {
		return "", &Error{Kind: kind, Err: errors.Errorf("counter returned non-positive value %d", seq)}
	}
	return Format(prefix, a.width, seq), nil
}

// Format pads seq to width digits. Larger values keep all their digits.
func Format(prefix string, width int, seq int64) string {
	return fmt.Sprintf("%s%0*d", prefix, width, seq)
}
