package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/sr2706/parakram-backend/internal/auth"
	"github.com/sr2706/parakram-backend/internal/service"
	"go.uber.org/zap"
)

type Handler struct {
	teams          *service.TeamService
	payments       *service.PaymentService
	stats          *service.StatsService
	players        *service.PlayerService
	accommodations *service.AccommodationService
	documents      *service.DocumentService

	issuer        *auth.Issuer
	healthChecker HealthChecker

	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

func (h *Handler) WithHealthChecker(c HealthChecker) *Handler {
	h.healthChecker = c
	return h
}

func (h *Handler) WithIssuer(i *auth.Issuer) *Handler {
	h.issuer = i
	return h
}

func (h *Handler) WithTeamService(s *service.TeamService) *Handler {
	h.teams = s
	return h
}

func (h *Handler) WithPaymentService(s *service.PaymentService) *Handler {
	h.payments = s
	return h
}

func (h *Handler) WithStatsService(s *service.StatsService) *Handler {
	h.stats = s
	return h
}

func (h *Handler) WithPlayerService(s *service.PlayerService) *Handler {
	h.players = s
	return h
}

func (h *Handler) WithAccommodationService(s *service.AccommodationService) *Handler {
	h.accommodations = s
	return h
}

func (h *Handler) WithDocumentService(s *service.DocumentService) *Handler {
	h.documents = s
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewValidator()
	e.HTTPErrorHandler = h.httpErrorHandler
	e.Use(middleware.RequestID())
	e.Use(ZapLoggerMiddleware(h.logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("8M"))

	if h.healthChecker != nil {
		e.GET("/health", h.healthChecker.HealthCheck())
	}

	api := e.Group("/api")

	api.POST("/teams/register", h.RegisterTeam)
	api.GET("/teams/:id", h.GetTeam)
	api.POST("/teams/:id/document", h.GenerateDocument)

	api.GET("/accommodation/types", h.AccommodationTypes)
	api.POST("/accommodation/select", h.SelectAccommodation)
	api.GET("/accommodation/team/:teamId/cost", h.AccommodationCost)

	api.POST("/payments", h.SubmitPayment)

	admin := api.Group("/admin", AuthMiddleware(h.issuer, auth.TokenTypeAdmin))

	admin.GET("/teams", h.ListTeams)
	admin.GET("/teams/sport/:sport", h.TeamsBySport)
	admin.GET("/players", h.ListPlayers)
	admin.GET("/players/sport/:sport", h.PlayersBySport)
	admin.GET("/payments", h.ListPayments)
	admin.GET("/payments/team/:teamId/screenshot", h.PaymentScreenshot)
	admin.PATCH("/payments/:id/status", h.SetPaymentStatus)
	admin.GET("/dashboard", h.Dashboard)
	admin.GET("/statistics", h.Statistics)
}

type envelope struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Count   *int           `json:"count,omitempty"`
	Message string         `json:"message,omitempty"`
	Error   *service.Error `json:"error,omitempty"`
}

func (h *Handler) ok(e echo.Context, status int, data any) error {
	return e.JSON(status, envelope{Success: true, Data: data})
}

func (h *Handler) list(e echo.Context, data any, count int) error {
	return e.JSON(http.StatusOK, envelope{Success: true, Data: data, Count: &count})
}

func (h *Handler) decodeRequest(e echo.Context, req any) *service.Error {
	if err := e.Bind(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidInput, "invalid request body")
	}

	if err := e.Validate(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidInput, errors.Wrap(err, "request validation failed").Error())
	}
	return nil
}

func (h *Handler) transportError(e echo.Context, err *service.Error) error {
	return e.JSON(statusFor(err.Kind()), envelope{Error: err})
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindOK:
		return http.StatusOK
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindInvalidInput:
		return http.StatusBadRequest
	case service.KindConflict:
		return http.StatusConflict
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusServiceUnavailable
	}
}

// httpErrorHandler keeps echo's own errors (404 routes, body limit, panics) in the envelope.
func (h *Handler) httpErrorHandler(err error, e echo.Context) {
	if e.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	serr := service.NewError(service.ErrorCodeUnavailable, message)
	switch code {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		serr.Code = service.ErrorCodeNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		serr.Code = service.ErrorCodeUnauthorized
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		serr.Code = service.ErrorCodeInvalidInput
	}

	if err = e.JSON(code, envelope{Error: serr}); err != nil {
		h.logger.Error("failed to write error response", zap.Error(err))
	}
}
