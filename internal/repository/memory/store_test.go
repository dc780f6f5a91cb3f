package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sr2706/parakram-backend/internal/model"
	"github.com/sr2706/parakram-backend/internal/repository"
)

func newTestStore() (*Store, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC))
	return NewStore(clock), clock
}

func TestCounters_ConcurrentNextIsUnique(t *testing.T) {
	s, _ := newTestStore()
	counters := s.Counters()

	const workers = 64
	values := make(chan int64, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := counters.Next(context.Background(), "team")
			assert.NoError(t, err)
			values <- v
		}()
	}
	wg.Wait()
	close(values)

	seen := map[int64]bool{}
	for v := range values {
		assert.False(t, seen[v], "duplicate counter value %d", v)
		seen[v] = true
	}
	assert.Len(t, seen, workers)

	other, err := counters.Next(context.Background(), "player")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other, "counters are independent per kind")
}

func TestTeams_FinalizeOnlyFromProvisional(t *testing.T) {
	s, _ := newTestStore()
	teams := s.Teams()
	ctx := context.Background()

	require.NoError(t, teams.Create(ctx, &repository.Team{ID: "TM0001", SportName: "Football", Status: model.TeamStatusProvisional}))

	registered, err := teams.ListRegistered(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, registered, "provisional teams are not listed")

	team, err := teams.Finalize(ctx, "TM0001", []string{"PL0001", "PL0002"})
	require.NoError(t, err)
	assert.Equal(t, model.TeamStatusRegistered, team.Status)
	assert.Equal(t, []string{"PL0001", "PL0002"}, team.PlayerIDs)

	_, err = teams.Finalize(ctx, "TM0001", []string{"PL0003"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = teams.Finalize(ctx, "TM9999", nil)
	assert.ErrorIs(t, err, repository.ErrConflict)

	assert.ErrorIs(t, teams.Create(ctx, &repository.Team{ID: "TM0001"}), repository.ErrAlreadyExists)
}

func TestTeams_ReturnedRowsAreCopies(t *testing.T) {
	s, _ := newTestStore()
	teams := s.Teams()
	ctx := context.Background()

	require.NoError(t, teams.Create(ctx, &repository.Team{ID: "TM0001", SportName: "Football", Status: model.TeamStatusProvisional}))
	_, err := teams.Finalize(ctx, "TM0001", []string{"PL0001"})
	require.NoError(t, err)

	got, err := teams.Get(ctx, "TM0001")
	require.NoError(t, err)
	got.PlayerIDs[0] = "tampered"

	again, err := teams.Get(ctx, "TM0001")
	require.NoError(t, err)
	assert.Equal(t, []string{"PL0001"}, again.PlayerIDs)
}

func TestPayments_OnePerTeam(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	require.NoError(t, s.Teams().Create(ctx, &repository.Team{ID: "TM0001", SportName: "Football", Status: model.TeamStatusRegistered}))

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- s.Payments().Create(ctx, &repository.Payment{
				ID:     "pay-" + string(rune('a'+i)),
				TeamID: "TM0001",
				Status: model.PaymentStatusPending,
			})
		}(i)
	}
	wg.Wait()
	close(results)

	var ok, dup int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, repository.ErrAlreadyExists):
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, dup)

	assert.ErrorIs(t, s.Payments().Create(ctx, &repository.Payment{ID: "x", TeamID: "missing"}), repository.ErrNotFound)
}

func TestPayments_UpdateStatusIsCompareAndSet(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()
	require.NoError(t, s.Teams().Create(ctx, &repository.Team{ID: "TM0001", Status: model.TeamStatusRegistered}))
	require.NoError(t, s.Payments().Create(ctx, &repository.Payment{ID: "p1", TeamID: "TM0001", Status: model.PaymentStatusPending}))

	clock.Advance(time.Hour)
	pm, err := s.Payments().UpdateStatus(ctx, "p1", model.PaymentStatusPending, model.PaymentStatusCompleted, clock.Now())
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, pm.Status)
	assert.True(t, pm.UpdatedAt.After(pm.CreatedAt))

	_, err = s.Payments().UpdateStatus(ctx, "p1", model.PaymentStatusPending, model.PaymentStatusRejected, clock.Now())
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestPlayers_SetAccommodationOnce(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	require.NoError(t, s.Teams().Create(ctx, &repository.Team{ID: "TM0001", Status: model.TeamStatusRegistered}))
	require.NoError(t, s.Players().Create(ctx, &repository.Player{ID: "PL0001", TeamID: "TM0001"}))
	require.NoError(t, s.Accommodations().Create(ctx, &repository.Accommodation{ID: "a1", Type: model.AccommodationDormitory, Price: 300}))
	require.NoError(t, s.Accommodations().Create(ctx, &repository.Accommodation{ID: "a2", Type: model.AccommodationDormitory, Price: 300}))

	require.NoError(t, s.Players().SetAccommodation(ctx, "PL0001", "a1"))
	assert.ErrorIs(t, s.Players().SetAccommodation(ctx, "PL0001", "a2"), repository.ErrAlreadyExists)
	assert.ErrorIs(t, s.Players().SetAccommodation(ctx, "PL9999", "a2"), repository.ErrNotFound)

	assert.ErrorIs(t, s.Players().Create(ctx, &repository.Player{ID: "PL0002", TeamID: "missing"}), repository.ErrNotFound)
}

func TestStats_OnlyRegisteredTeamsCount(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	require.NoError(t, s.Teams().Create(ctx, &repository.Team{ID: "TM0001", SportName: "Football", Status: model.TeamStatusRegistered}))
	require.NoError(t, s.Teams().Create(ctx, &repository.Team{ID: "TM0002", SportName: "Football", Status: model.TeamStatusFailed}))
	require.NoError(t, s.Accommodations().Create(ctx, &repository.Accommodation{ID: "a1", Type: model.AccommodationPrivateRoom, Price: 1000}))
	require.NoError(t, s.Players().Create(ctx, &repository.Player{ID: "PL0001", TeamID: "TM0001", SportName: "Football", AccommodationID: strPtr("a1")}))
	require.NoError(t, s.Players().Create(ctx, &repository.Player{ID: "PL0002", TeamID: "TM0002", SportName: "Football"}))
	require.NoError(t, s.Payments().Create(ctx, &repository.Payment{ID: "p2", TeamID: "TM0002", Status: model.PaymentStatusCompleted, AmountPaid: 500}))

	sports, err := s.Stats().SportCounts(ctx)
	require.NoError(t, err)
	require.Len(t, sports, 1)
	assert.Equal(t, repository.SportCount{Sport: "Football", Teams: 1, Players: 1}, *sports[0])

	acc, err := s.Stats().AccommodationCounts(ctx)
	require.NoError(t, err)
	require.Len(t, acc, 1)
	assert.Equal(t, 1000.0, acc[0].Revenue)

	payments, err := s.Stats().PaymentCounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, payments)

	unpaid, err := s.Stats().UnpaidTeams(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unpaid)
}

func strPtr(s string) *string { return &s }

func TestWithinTransaction_KeepsWritesOnError(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.Teams().Create(ctx, &repository.Team{ID: "TM0001", SportName: "Cricket", Status: model.TeamStatusProvisional}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	team, err := s.Teams().Get(ctx, "TM0001")
	require.NoError(t, err, "callbacks own their cleanup")
	assert.Equal(t, model.TeamStatusProvisional, team.Status)
}
