package api

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sr2706/parakram-backend/internal/auth"
	"github.com/sr2706/parakram-backend/internal/service"
	"github.com/sr2706/parakram-backend/pkg/logger"
	"go.uber.org/zap"
)

const (
	loggerKey    = "logger"
	tokenTypeKey = "token_type"
)

func ZapLoggerMiddleware(l *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			req := c.Request()
			res := c.Response()

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)

			reqLogger := l.With(
				zap.String("request_id", requestID),
			)

			c.Set(loggerKey, reqLogger)

			ctx := logger.WithLogger(req.Context(), reqLogger)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			latency := time.Since(start)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.String("remote_ip", c.RealIP()),
				zap.Int("status", res.Status),
				zap.Duration("latency", latency),
				zap.Int64("bytes_in", req.ContentLength),
				zap.Int64("bytes_out", res.Size),
			}

			if err != nil {
				fields = append(fields, zap.Error(err))
				reqLogger.Error("request failed", fields...)
			} else {
				reqLogger.Info("request completed", fields...)
			}

			return err
		}
	}
}

func GetLoggerFromContext(c echo.Context) *zap.Logger {
	if l, ok := c.Get(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// AuthMiddleware admits requests carrying a valid bearer token of one of the given types.
func AuthMiddleware(issuer *auth.Issuer, types ...auth.TokenType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := GetLoggerFromContext(c)

			token, found := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			if !found || token == "" {
				return unauthorized(c, "missing bearer token")
			}
			if issuer == nil {
				l.Error("token issuer is not configured")
				return unauthorized(c, "authentication is not configured")
			}

			tokenType, ok := issuer.IsValidToken(strings.TrimSpace(token))
			if !ok {
				l.Warn("rejected invalid token")
				return unauthorized(c, "invalid token")
			}
			if len(types) > 0 && !slices.Contains(types, tokenType) {
				l.Warn("rejected token type", zap.String("type", string(tokenType)))
				return unauthorized(c, "insufficient permissions")
			}

			c.Set(tokenTypeKey, tokenType)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, envelope{Error: service.NewError(service.ErrorCodeUnauthorized, message)})
}
