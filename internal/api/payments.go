package api

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sr2706/parakram-backend/internal/model"
	"github.com/sr2706/parakram-backend/internal/service"
	"github.com/sr2706/parakram-backend/pkg/logger"
	"go.uber.org/zap"
)

// SubmitPayment accepts either JSON with a screenshot URL or a multipart form
// carrying the screenshot file.
func (h *Handler) SubmitPayment(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req paymentRequest
	if err := ProcessRequest(e, &req, bindPayment, readScreenshot); err != nil {
		l.Warn("invalid payment request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("submitting payment", zap.String("team_id", req.TeamID), zap.String("transaction_id", req.TransactionID))

	var (
		payment *model.Payment
		err     *service.Error
	)
	if req.upload != nil {
		if c, ok := req.upload.Body.(io.Closer); ok {
			defer c.Close()
		}
		payment, err = h.payments.SubmitPayment(e.Request().Context(), req.TeamID, req.TransactionID, req.AmountPaid, req.upload)
	} else {
		payment, err = h.payments.AttachPayment(e.Request().Context(), req.TeamID, req.TransactionID, req.AmountPaid, req.Screenshot)
	}
	if err != nil {
		l.Warn("failed to submit payment", zap.String("team_id", req.TeamID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	h.stats.Invalidate()

	return h.ok(e, http.StatusCreated, payment)
}

func (h *Handler) ListPayments(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	payments, err := h.payments.ListPayments(e.Request().Context())
	if err != nil {
		l.Error("failed to list payments", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return h.list(e, payments, len(payments))
}

func (h *Handler) PaymentScreenshot(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID := e.Param("teamId")

	shot, err := h.payments.GetPaymentScreenshot(e.Request().Context(), teamID)
	if err != nil {
		l.Warn("failed to get payment screenshot", zap.String("team_id", teamID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return h.ok(e, http.StatusOK, shot)
}

func (h *Handler) SetPaymentStatus(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Status model.PaymentStatus `json:"status" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	paymentID := e.Param("id")

	l.Info("updating payment status", zap.String("payment_id", paymentID), zap.String("status", string(req.Status)))

	payment, err := h.payments.SetPaymentStatus(e.Request().Context(), paymentID, req.Status)
	if err != nil {
		l.Warn("failed to update payment status", zap.String("payment_id", paymentID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	h.stats.Invalidate()

	return e.JSON(http.StatusOK, envelope{Success: true, Data: payment, Message: "payment status updated"})
}
