package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sr2706/parakram-backend/pkg/logger"
	"go.uber.org/zap"
)

func (h *Handler) Dashboard(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	stats, err := h.stats.Dashboard(e.Request().Context())
	if err != nil {
		l.Error("failed to build dashboard", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return h.ok(e, http.StatusOK, stats)
}

func (h *Handler) Statistics(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	stats, err := h.stats.Statistics(e.Request().Context())
	if err != nil {
		l.Error("failed to compute statistics", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return h.ok(e, http.StatusOK, stats)
}
