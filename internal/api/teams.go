package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sr2706/parakram-backend/internal/model"
	"github.com/sr2706/parakram-backend/pkg/logger"
	"go.uber.org/zap"
)

type registerTeamRequest struct {
	SportName string              `json:"sport_name"`
	Players   []model.PlayerInput `json:"players"`
}

func (h *Handler) RegisterTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req registerTeamRequest
	if err := e.Bind(&req); err != nil {
		l.Warn("invalid request", zap.Error(err))
		return h.transportError(e, invalidBody())
	}

	l.Info("registering team", zap.String("sport", req.SportName), zap.Int("players", len(req.Players)))

	team, err := h.teams.RegisterTeam(e.Request().Context(), req.SportName, req.Players)
	if err != nil {
		l.Error("failed to register team", zap.String("sport", req.SportName), zap.Any("error", err))
		return h.transportError(e, err)
	}

	h.stats.Invalidate()

	return h.ok(e, http.StatusCreated, team)
}

func (h *Handler) GetTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID := e.Param("id")

	l.Info("getting team", zap.String("team_id", teamID))

	team, err := h.teams.GetTeam(e.Request().Context(), teamID)
	if err != nil {
		l.Warn("failed to get team", zap.String("team_id", teamID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return h.ok(e, http.StatusOK, team)
}

func (h *Handler) GenerateDocument(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID := e.Param("id")

	url, err := h.documents.Generate(e.Request().Context(), teamID)
	if err != nil {
		l.Error("failed to generate document", zap.String("team_id", teamID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return h.ok(e, http.StatusOK, map[string]string{"team_id": teamID, "pdf_url": url})
}

func (h *Handler) ListTeams(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teams, err := h.teams.ListTeams(e.Request().Context())
	if err != nil {
		l.Error("failed to list teams", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return h.list(e, teams, len(teams))
}

func (h *Handler) TeamsBySport(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	sport := e.Param("sport")

	teams, err := h.teams.GetTeamsBySport(e.Request().Context(), sport)
	if err != nil {
		l.Warn("failed to list teams by sport", zap.String("sport", sport), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return h.list(e, teams, len(teams))
}

func (h *Handler) ListPlayers(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	players, err := h.players.ListPlayers(e.Request().Context())
	if err != nil {
		l.Error("failed to list players", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return h.list(e, players, len(players))
}

func (h *Handler) PlayersBySport(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	sport := e.Param("sport")

	players, err := h.players.PlayersBySport(e.Request().Context(), sport)
	if err != nil {
		l.Warn("failed to list players by sport", zap.String("sport", sport), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return h.list(e, players, len(players))
}
