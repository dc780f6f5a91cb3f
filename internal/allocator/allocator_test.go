package allocator

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sr2706/parakram-backend/internal/repository/memory"
	"pgregory.net/rapid"
)

type mockCounters struct {
	mock.Mock
}

func (m *mockCounters) Next(ctx context.Context, kind string) (int64, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).(int64), args.Error(1)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		width  int
		seq    int64
		want   string
	}{
		{name: "padded", prefix: "TM", width: 4, seq: 1, want: "TM0001"},
		{name: "exact width", prefix: "PL", width: 4, seq: 9999, want: "PL9999"},
		{name: "grows past width", prefix: "PL", width: 4, seq: 12345, want: "PL12345"},
		{name: "empty prefix", prefix: "", width: 2, seq: 7, want: "07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.prefix, tt.width, tt.seq))
		})
	}
}

func TestFormat_Injective(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.IntRange(1, MaxWidth).Draw(t, "width")
		a := rapid.Int64Range(1, 1<<40).Draw(t, "a")
		b := rapid.Int64Range(1, 1<<40).Draw(t, "b")

		fa, fb := Format("TM", width, a), Format("TM", width, b)
		if (a == b) != (fa == fb) {
			t.Fatalf("Format not injective: %d -> %q, %d -> %q", a, fa, b, fb)
		}

		n, err := strconv.ParseInt(strings.TrimPrefix(fa, "TM"), 10, 64)
		if err != nil || n != a {
			t.Fatalf("Format(%d) = %q does not round trip", a, fa)
		}
	})
}

func TestAllocator_Defaults(t *testing.T) {
	counters := new(mockCounters)
	counters.On("Next", mock.Anything, KindTeam).Return(int64(3), nil).Once()
	counters.On("Next", mock.Anything, KindPlayer).Return(int64(42), nil).Once()

	a := New(counters, Options{Width: 99})

	teamID, err := a.AllocateTeamID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "TM0003", teamID)

	playerID, err := a.AllocatePlayerID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PL0042", playerID)

	counters.AssertExpectations(t)
}

func TestAllocator_CounterFailure(t *testing.T) {
	tests := []struct {
		name string
		seq  int64
		err  error
	}{
		{name: "store error", err: errors.New("connection refused")},
		{name: "zero value", seq: 0},
		{name: "negative value", seq: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counters := new(mockCounters)
			counters.On("Next", mock.Anything, KindPlayer).Return(tt.seq, tt.err)

			id, err := New(counters, Options{}).AllocatePlayerID(context.Background())

			assert.Empty(t, id)
			require.Error(t, err)
			assert.True(t, IsAllocationError(err))

			var allocErr *Error
			require.True(t, errors.As(err, &allocErr))
			assert.Equal(t, KindPlayer, allocErr.Kind)
		})
	}
}

func TestAllocator_ConcurrentUnique(t *testing.T) {
	store := memory.NewStore(clockwork.NewFakeClock())
	a := New(store.Counters(), Options{TeamPrefix: "T", PlayerPrefix: "P", Width: 3})

	const workers = 50
	ids := make(chan string, workers*2)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			id, err := a.AllocateTeamID(context.Background())
			assert.NoError(t, err)
			ids <- id
		}()
		go func() {
			defer wg.Done()
			id, err := a.AllocatePlayerID(context.Background())
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, workers*2)
	for id := range ids {
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, workers*2)
	assert.Contains(t, seen, "T050")
	assert.Contains(t, seen, "P050")
}

func TestAllocator_NeverReusesAfterFailure(t *testing.T) {
	counters := new(mockCounters)
	counters.On("Next", mock.Anything, KindTeam).Return(int64(1), nil).Once()
	counters.On("Next", mock.Anything, KindTeam).Return(int64(0), errors.New("timeout")).Once()
	counters.On("Next", mock.Anything, KindTeam).Return(int64(3), nil).Once()

	a := New(counters, Options{})
	ctx := context.Background()

	first, err := a.AllocateTeamID(ctx)
	require.NoError(t, err)
	_, err = a.AllocateTeamID(ctx)
	require.Error(t, err)
	third, err := a.AllocateTeamID(ctx)
	require.NoError(t, err)

	assert.Equal(t, "TM0001", first)
	assert.Equal(t, "TM0003", third)
}
