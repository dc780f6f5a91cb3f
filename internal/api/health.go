package api

import (
	"context"
	"time"

	"github.com/hellofresh/health-go/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sr2706/parakram-backend/internal/repository"
)

type HealthChecker interface {
	HealthCheck() echo.HandlerFunc
}

type healthChecker struct {
	health *health.Health
}

func NewHealthChecker(version string, checks ...health.Config) (HealthChecker, error) {
	h, err := health.New(health.WithComponent(health.Component{Name: "parakram-backend", Version: version}))
	if err != nil {
		return nil, errors.Wrap(err, "create health checker")
	}

	for _, check := range checks {
		if err = h.Register(check); err != nil {
			return nil, errors.Wrapf(err, "register health check %s", check.Name)
		}
	}

	return &healthChecker{
		health: h,
	}, nil
}

// PingCheck reports the component as down when Ping fails.
func PingCheck(name string, p repository.Pinger, skipOnErr bool) health.Config {
	return health.Config{
		Name:      name,
		Timeout:   2 * time.Second,
		SkipOnErr: skipOnErr,
		Check: func(ctx context.Context) error {
			return p.Ping(ctx)
		},
	}
}

func (h *healthChecker) HealthCheck() echo.HandlerFunc {
	return echo.WrapHandler(h.health.Handler())
}
