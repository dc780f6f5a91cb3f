package api

import (
	"math"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sr2706/parakram-backend/internal/model"
	"github.com/sr2706/parakram-backend/internal/service"
)

// ProcessRequest runs the decoding steps in order and stops at the first failure.
func ProcessRequest[T any](e echo.Context, req *T, steps ...func(echo.Context, *T) *service.Error) *service.Error {
	for _, step := range steps {
		if err := step(e, req); err != nil {
			return err
		}
	}
	return nil
}

func invalidBody() *service.Error {
	return service.NewError(service.ErrorCodeInvalidInput, "invalid request body")
}

type paymentRequest struct {
	TeamID        string              `json:"team_id" form:"team_id"`
	TransactionID string              `json:"transaction_id" form:"transaction_id"`
	AmountPaid    float64             `json:"amount_paid" form:"-"`
	Screenshot    model.ScreenshotRef `json:"payment_screenshot" form:"-"`

	upload *service.ScreenshotUpload
}

func isMultipart(e echo.Context) bool {
	return strings.HasPrefix(e.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

func bindPayment(e echo.Context, req *paymentRequest) *service.Error {
	if !isMultipart(e) {
		if err := e.Bind(req); err != nil {
			return invalidBody()
		}
		return nil
	}

	req.TeamID = e.FormValue("team_id")
	req.TransactionID = e.FormValue("transaction_id")

	amount, err := strconv.ParseFloat(strings.TrimSpace(e.FormValue("amount_paid")), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return service.NewError(service.ErrorCodeInvalidInput, "amount_paid must be a finite number")
	}
	req.AmountPaid = amount
	return nil
}

func readScreenshot(e echo.Context, req *paymentRequest) *service.Error {
	if !isMultipart(e) {
		return nil
	}

	fh, err := e.FormFile("payment_screenshot")
	if err != nil {
		return service.NewError(service.ErrorCodeInvalidInput, "payment_screenshot file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return invalidBody()
	}

	req.upload = &service.ScreenshotUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}
	return nil
}
