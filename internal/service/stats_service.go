package service

import (
	"context"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sr2706/parakram-backend/internal/model"
	"github.com/sr2706/parakram-backend/internal/repository"
	"github.com/sr2706/parakram-backend/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	statisticsCacheKey = "statistics"
	dashboardCacheKey  = "dashboard"
)

type StatsService struct {
	stats repository.StatsRepository
	cache *cache.Cache
}

func NewStatsService(stats repository.StatsRepository) *StatsService {
	return &StatsService{stats: stats}
}

// WithCacheTTL keeps computed results for ttl. Zero disables caching.
func (s *StatsService) WithCacheTTL(ttl time.Duration) *StatsService {
	if ttl <= 0 {
		s.cache = nil
		return s
	}
	s.cache = cache.New(ttl, 2*ttl)
	return s
}

// snapshot is one set of grouping passes over registered teams.
type snapshot struct {
	sports         []*repository.SportCount
	accommodations []*repository.AccommodationCount
	payments       []*repository.PaymentCount
	unpaid         int64
}

func (s *StatsService) load(ctx context.Context) (*snapshot, error) {
	snap := &snapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snap.sports, err = s.stats.SportCounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.accommodations, err = s.stats.AccommodationCounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.payments, err = s.stats.PaymentCounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.unpaid, err = s.stats.UnpaidTeams(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *StatsService) Statistics(ctx context.Context) (*model.Statistics, *Error) {
	l := logger.FromContext(ctx)

	if cached, ok := s.cached(statisticsCacheKey); ok {
		return cached.(*model.Statistics), nil
	}

	snap, err := s.load(ctx)
	if err != nil {
		l.Error("failed to compute statistics", zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to compute statistics")
	}

	res := &model.Statistics{
		UnpaidTeamsCount: snap.unpaid,
		SportStats:       make([]model.SportStat, 0, len(snap.sports)),
	}
	for _, c := range snap.sports {
		res.TeamsCount += c.Teams
		res.PlayersCount += c.Players
		res.SportStats = append(res.SportStats, model.SportStat{Sport: c.Sport, Teams: c.Teams, Players: c.Players})
	}
	for _, c := range snap.payments {
		res.PaymentsCount += c.Count
		switch c.Status {
		case model.PaymentStatusCompleted:
			res.CompletedPaymentsCount += c.Count
			res.TotalRevenue += c.Amount
		case model.PaymentStatusPending:
			res.PendingPaymentsCount += c.Count
		case model.PaymentStatusRejected:
			res.RejectedPaymentsCount += c.Count
		}
	}

	sort.SliceStable(res.SportStats, func(i, j int) bool {
		a, b := res.SportStats[i], res.SportStats[j]
		if a.Teams != b.Teams {
			return a.Teams > b.Teams
		}
		if a.Players != b.Players {
			return a.Players > b.Players
		}
		return a.Sport < b.Sport
	})

	s.store(statisticsCacheKey, res)
	return res, nil
}

func (s *StatsService) Dashboard(ctx context.Context) (*model.DashboardStats, *Error) {
	l := logger.FromContext(ctx)

	if cached, ok := s.cached(dashboardCacheKey); ok {
		return cached.(*model.DashboardStats), nil
	}

	snap, err := s.load(ctx)
	if err != nil {
		l.Error("failed to compute dashboard", zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to compute dashboard")
	}

	res := &model.DashboardStats{
		SportDistribution:         make([]model.SportCount, 0, len(snap.sports)),
		AccommodationDistribution: make([]model.AccommodationStat, 0, len(snap.accommodations)),
		PaymentDistribution:       make([]model.PaymentStatusStat, 0, len(snap.payments)+1),
	}

	for _, c := range snap.sports {
		res.TotalTeams += c.Teams
		res.TotalPlayers += c.Players
		res.SportDistribution = append(res.SportDistribution, model.SportCount{Sport: c.Sport, Count: c.Players})
	}
	for _, c := range snap.accommodations {
		res.AccommodationDistribution = append(res.AccommodationDistribution, model.AccommodationStat{
			Type:         c.Type,
			Count:        c.Count,
			TotalRevenue: c.Revenue,
		})
	}
	for _, c := range snap.payments {
		res.TotalPayments += c.Count
		if c.Status == model.PaymentStatusCompleted {
			res.TotalAmountCollected += c.Amount
		}
		res.PaymentDistribution = append(res.PaymentDistribution, model.PaymentStatusStat{
			Status: string(c.Status),
			Count:  c.Count,
			Amount: c.Amount,
		})
	}
	if snap.unpaid > 0 {
		res.PaymentDistribution = append(res.PaymentDistribution, model.PaymentStatusStat{
			Status: model.StatusUnpaid,
			Count:  snap.unpaid,
		})
	}

	sort.SliceStable(res.SportDistribution, func(i, j int) bool {
		a, b := res.SportDistribution[i], res.SportDistribution[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Sport < b.Sport
	})
	sort.SliceStable(res.AccommodationDistribution, func(i, j int) bool {
		a, b := res.AccommodationDistribution[i], res.AccommodationDistribution[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Type < b.Type
	})
	sort.SliceStable(res.PaymentDistribution, func(i, j int) bool {
		a, b := res.PaymentDistribution[i], res.PaymentDistribution[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Status < b.Status
	})

	s.store(dashboardCacheKey, res)
	return res, nil
}

// Invalidate drops cached results, e.g. after an administrator changed a payment.
func (s *StatsService) Invalidate() {
	if s.cache != nil {
		s.cache.Flush()
	}
}

func (s *StatsService) cached(key string) (any, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

func (s *StatsService) store(key string, v any) {
	if s.cache != nil {
		s.cache.SetDefault(key, v)
	}
}
