// Package document renders the registration confirmation handed to teams once
// their players and payment are on record.
package document

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"github.com/sr2706/parakram-backend/internal/model"
)

const ContentType = "application/pdf"

// Key is the object storage key of a team's registration document.
func Key(teamID string) string {
	return fmt.Sprintf("documents/%s_registration.pdf", teamID)
}

type PDFRenderer struct {
	title    string
	currency string
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{
		title:    "Sports Fest Registration Details",
		currency: "INR",
	}
}

func (r *PDFRenderer) Render(ctx context.Context, reg *model.Registration) ([]byte, error) {
	if reg == nil || reg.Team == nil || reg.Payment == nil {
		return nil, errors.New("registration is incomplete")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s registration", reg.Team.ID), true)
	pdf.SetCreationDate(reg.Team.CreatedAt)
	pdf.SetCatalogSort(true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, r.title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	r.section(pdf, "Team Information")
	r.line(pdf, "Team ID", reg.Team.ID)
	r.line(pdf, "Sport", reg.Team.SportName)
	r.line(pdf, "Players", fmt.Sprintf("%d", len(reg.Players)))
	pdf.Ln(4)

	r.section(pdf, "Player Information")
	for i, p := range reg.Players {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, fmt.Sprintf("Player %d", i+1), "", 1, "L", false, 0, "")
		r.line(pdf, "ID", p.ID)
		r.line(pdf, "Name", p.Name)
		r.line(pdf, "Phone", p.PhoneNumber)
		r.line(pdf, "College", p.CollegeName)
		if p.Accommodation != nil {
			r.line(pdf, "Accommodation", fmt.Sprintf("%s (%s)", p.Accommodation.Type, r.money(p.Accommodation.Price)))
		} else {
			r.line(pdf, "Accommodation", "none")
		}
		pdf.Ln(2)
	}
	pdf.Ln(2)

	r.section(pdf, "Payment Information")
	r.line(pdf, "Transaction ID", reg.Payment.TransactionID)
	r.line(pdf, "Amount Paid", r.money(reg.Payment.AmountPaid))
	r.line(pdf, "Payment Date", reg.Payment.PaymentDate.Format(time.DateOnly))
	r.line(pdf, "Status", string(reg.Payment.Status))
	r.line(pdf, "Payment Screenshot", reg.Payment.Screenshot.URL)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "render pdf")
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "BU", 14)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
}

func (r *PDFRenderer) line(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(50, 6, label+":", "", 0, "L", false, 0, "")
	pdf.MultiCell(0, 6, value, "", "L", false)
}

func (r *PDFRenderer) money(amount float64) string {
	return fmt.Sprintf("%s %.2f", r.currency, amount)
}
