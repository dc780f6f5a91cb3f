package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"github.com/sr2706/parakram-backend/internal/allocator"
	"github.com/sr2706/parakram-backend/internal/document"
	"github.com/sr2706/parakram-backend/internal/model"
	"github.com/sr2706/parakram-backend/internal/repository/memory"
	"github.com/sr2706/parakram-backend/internal/storage"
)

type limits map[string]int

func (l limits) Limit(sport string) int {
	if n, ok := l[sport]; ok {
		return n
	}
	return 20
}

// fixture wires every service over one memory store.
type fixture struct {
	store *memory.Store
	clock *clockwork.FakeClock
	files *storage.MemoryUploader

	teams          *TeamService
	payments       *PaymentService
	stats          *StatsService
	players        *PlayerService
	accommodations *AccommodationService
	documents      *DocumentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := clockwork.NewFakeClockAt(time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC))
	store := memory.NewStore(clock)
	files := storage.NewMemoryUploader("https://files.local")
	ids := allocator.New(store.Counters(), allocator.Options{})

	f := &fixture{store: store, clock: clock, files: files}

	f.teams = NewTeamService(store).
		WithAllocator(ids).
		WithTeamRepo(store.Teams()).
		WithPlayerRepo(store.Players()).
		WithAccommodationRepo(store.Accommodations()).
		WithPaymentRepo(store.Payments()).
		WithSportLimits(limits{"Football": 16, "Basketball": 5}).
		WithClock(clock)

	f.payments = NewPaymentService(store).
		WithTeamRepo(store.Teams()).
		WithPlayerRepo(store.Players()).
		WithAccommodationRepo(store.Accommodations()).
		WithPaymentRepo(store.Payments()).
		WithFileUploader(files).
		WithClock(clock)

	f.stats = NewStatsService(store.Stats())

	f.players = NewPlayerService().
		WithPlayerRepo(store.Players()).
		WithAccommodationRepo(store.Accommodations())

	f.accommodations = NewAccommodationService(store).
		WithTeamRepo(store.Teams()).
		WithPlayerRepo(store.Players()).
		WithAccommodationRepo(store.Accommodations()).
		WithClock(clock)

	f.documents = NewDocumentService(document.NewPDFRenderer(), files).
		WithTeamRepo(store.Teams()).
		WithPlayerRepo(store.Players()).
		WithAccommodationRepo(store.Accommodations()).
		WithPaymentRepo(store.Payments())

	return f
}

func playerInputs(sport string, n int, acc ...model.AccommodationType) []model.PlayerInput {
	inputs := make([]model.PlayerInput, 0, n)
	for i := 0; i < n; i++ {
		in := model.PlayerInput{
			Name:        fmt.Sprintf("Player %d", i+1),
			PhoneNumber: fmt.Sprintf("98765432%02d", i),
			CollegeName: "NIT Trichy",
			SportName:   sport,
		}
		if i < len(acc) {
			in.AccommodationType = acc[i]
		}
		inputs = append(inputs, in)
	}
	return inputs
}

func (f *fixture) register(t *testing.T, sport string, n int, acc ...model.AccommodationType) *model.Team {
	t.Helper()

	team, err := f.teams.RegisterTeam(context.Background(), sport, playerInputs(sport, n, acc...))
	require.Nil(t, err)
	return team
}

func (f *fixture) pay(t *testing.T, teamID string, amount float64, status model.PaymentStatus) *model.Payment {
	t.Helper()
	ctx := context.Background()

	pm, err := f.payments.AttachPayment(ctx, teamID, "TXN-"+teamID, amount, model.ScreenshotRef{URL: "https://files.local/" + teamID + ".png"})
	require.Nil(t, err)

	if status != model.PaymentStatusPending {
		pm, err = f.payments.SetPaymentStatus(ctx, pm.ID, status)
		require.Nil(t, err)
	}
	return pm
}

var storageResult = storage.UploadResult{
	Key:      "screenshots/TM0404/a.png",
	Location: "https://files.local/screenshots/TM0404/a.png",
}
