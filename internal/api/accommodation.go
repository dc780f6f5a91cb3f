package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sr2706/parakram-backend/internal/model"
	"github.com/sr2706/parakram-backend/pkg/logger"
	"go.uber.org/zap"
)

func (h *Handler) AccommodationTypes(e echo.Context) error {
	types := h.accommodations.Types()
	return h.list(e, types, len(types))
}

func (h *Handler) SelectAccommodation(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		PlayerID string                  `json:"player_id" validate:"required"`
		Type     model.AccommodationType `json:"type" validate:"required,accommodation_type"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	player, err := h.accommodations.Select(e.Request().Context(), req.PlayerID, req.Type)
	if err != nil {
		l.Warn("failed to select accommodation", zap.String("player_id", req.PlayerID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	h.stats.Invalidate()

	return h.ok(e, http.StatusCreated, player)
}

func (h *Handler) AccommodationCost(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID := e.Param("teamId")

	cost, err := h.accommodations.TeamCost(e.Request().Context(), teamID)
	if err != nil {
		l.Warn("failed to compute accommodation cost", zap.String("team_id", teamID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return h.ok(e, http.StatusOK, cost)
}
