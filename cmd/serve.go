package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/hellofresh/health-go/v5"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/sr2706/parakram-backend/internal/allocator"
	"github.com/sr2706/parakram-backend/internal/api"
	"github.com/sr2706/parakram-backend/internal/auth"
	"github.com/sr2706/parakram-backend/internal/config"
	"github.com/sr2706/parakram-backend/internal/db"
	"github.com/sr2706/parakram-backend/internal/document"
	"github.com/sr2706/parakram-backend/internal/events"
	"github.com/sr2706/parakram-backend/internal/repository"
	"github.com/sr2706/parakram-backend/internal/repository/memory"
	"github.com/sr2706/parakram-backend/internal/service"
	"github.com/sr2706/parakram-backend/internal/storage"
	"github.com/sr2706/parakram-backend/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			l, err := logger.NewLogger(cfg.LogLevel, cfg.Development())
			if err != nil {
				return errors.Wrap(err, "create logger")
			}
			defer l.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(logger.WithLogger(ctx, l), cfg, l)
		},
	}
}

// repositories is the storage driver chosen at startup.
type repositories struct {
	tx             db.Transactor
	teams          repository.TeamRepository
	players        repository.PlayerRepository
	accommodations repository.AccommodationRepository
	payments       repository.PaymentRepository
	counters       repository.CounterRepository
	stats          repository.StatsRepository
	pinger         repository.Pinger
	close          func()
}

func openRepositories(ctx context.Context, cfg *config.Config, l *zap.Logger) (*repositories, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		l.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore(clockwork.NewRealClock())
		return &repositories{
			tx:             store,
			teams:          store.Teams(),
			players:        store.Players(),
			accommodations: store.Accommodations(),
			payments:       store.Payments(),
			counters:       store.Counters(),
			stats:          store.Stats(),
			pinger:         store,
			close:          func() {},
		}, nil
	}

	if cfg.AutoMigrate {
		if err := db.MigrateUp(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		l.Info("database migrations applied")
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	l.Info("database connection established")

	return &repositories{
		tx:             db.NewPgxTransactor(pool),
		teams:          repository.NewPgxTeamRepository(pool),
		players:        repository.NewPgxPlayerRepository(pool),
		accommodations: repository.NewPgxAccommodationRepository(pool),
		payments:       repository.NewPgxPaymentRepository(pool),
		counters:       repository.NewPgxCounterRepository(pool),
		stats:          repository.NewPgxStatsRepository(pool),
		pinger:         pool,
		close:          pool.Close,
	}, nil
}

func openUploader(ctx context.Context, cfg *config.Config, l *zap.Logger) (storage.FileUploader, error) {
	if !cfg.Storage.Enabled() {
		l.Warn("S3_BUCKET is not set, keeping uploads in memory")
		return storage.NewMemoryUploader("http://localhost" + cfg.HTTPAddr + "/files"), nil
	}

	return storage.NewS3Uploader(ctx, storage.S3UploaderConfig{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		BucketName:      cfg.Storage.Bucket,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
		UsePathStyle:    cfg.Storage.UsePathStyle,
	})
}

func openPublisher(cfg *config.Config, l *zap.Logger) (events.Publisher, []health.Config, error) {
	if cfg.Events.NATSURL == "" {
		return events.NewLogPublisher(l, cfg.Events.SubjectPrefix), nil, nil
	}

	p, err := events.NewNATSPublisher(events.NATSConfig{
		URL:           cfg.Events.NATSURL,
		SubjectPrefix: cfg.Events.SubjectPrefix,
	}, l)
	if err != nil {
		return nil, nil, err
	}
	l.Info("publishing events to nats", zap.String("url", cfg.Events.NATSURL))

	return p, []health.Config{api.PingCheck("nats", p, true)}, nil
}

func serve(ctx context.Context, cfg *config.Config, l *zap.Logger) error {
	l.Info("starting application", zap.String("version", version), zap.String("storage", cfg.StorageDriver))

	repos, err := openRepositories(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer repos.close()

	files, err := openUploader(ctx, cfg, l)
	if err != nil {
		return err
	}

	publisher, checks, err := openPublisher(cfg, l)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			l.Warn("failed to close event publisher", zap.Error(err))
		}
	}()

	issuer, err := auth.NewIssuer(cfg.TokenSecret, clockwork.NewRealClock())
	if err != nil {
		return err
	}

	checker, err := api.NewHealthChecker(version, append(checks, api.PingCheck("storage", repos.pinger, false))...)
	if err != nil {
		return err
	}

	ids := allocator.New(repos.counters, allocator.Options{
		TeamPrefix:   cfg.IDs.TeamPrefix,
		PlayerPrefix: cfg.IDs.PlayerPrefix,
		Width:        cfg.IDs.Width,
	})

	teams := service.NewTeamService(repos.tx).
		WithAllocator(ids).
		WithTeamRepo(repos.teams).
		WithPlayerRepo(repos.players).
		WithAccommodationRepo(repos.accommodations).
		WithPaymentRepo(repos.payments).
		WithSportLimits(cfg.Sports).
		WithPublisher(publisher)
	payments := service.NewPaymentService(repos.tx).
		WithTeamRepo(repos.teams).
		WithPlayerRepo(repos.players).
		WithAccommodationRepo(repos.accommodations).
		WithPaymentRepo(repos.payments).
		WithFileUploader(files).
		WithPublisher(publisher)
	stats := service.NewStatsService(repos.stats).WithCacheTTL(cfg.Stats.CacheTTL)
	players := service.NewPlayerService().
		WithPlayerRepo(repos.players).
		WithAccommodationRepo(repos.accommodations)
	accommodations := service.NewAccommodationService(repos.tx).
		WithTeamRepo(repos.teams).
		WithPlayerRepo(repos.players).
		WithAccommodationRepo(repos.accommodations)
	documents := service.NewDocumentService(document.NewPDFRenderer(), files).
		WithTeamRepo(repos.teams).
		WithPlayerRepo(repos.players).
		WithAccommodationRepo(repos.accommodations).
		WithPaymentRepo(repos.payments)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	api.NewHandler(l).
		WithIssuer(issuer).
		WithHealthChecker(checker).
		WithTeamService(teams).
		WithPaymentService(payments).
		WithStatsService(stats).
		WithPlayerService(players).
		WithAccommodationService(accommodations).
		WithDocumentService(documents).
		RegisterRoutes(e)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l.Info("server starting", zap.String("addr", cfg.HTTPAddr))
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		l.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
