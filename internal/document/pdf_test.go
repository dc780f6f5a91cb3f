package document

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sr2706/parakram-backend/internal/model"
)

func testRegistration() *model.Registration {
	created := time.Date(2025, 2, 10, 9, 30, 0, 0, time.UTC)
	players := []*model.Player{
		{
			ID:          "PL0001",
			Name:        "Asha Rao",
			PhoneNumber: "9876543210",
			CollegeName: "NIT Trichy",
			SportName:   "Football",
			Accommodation: &model.Accommodation{
				ID:    "acc-1",
				Type:  model.AccommodationDormitory,
				Price: 300,
			},
		},
		{ID: "PL0002", Name: "Vikram Singh", PhoneNumber: "9123456780", CollegeName: "IIT Madras", SportName: "Football"},
	}

	return &model.Registration{
		Team: &model.Team{
			ID:        "TM0001",
			SportName: "Football",
			Status:    model.TeamStatusRegistered,
			PlayerIDs: []string{"PL0001", "PL0002"},
			CreatedAt: created,
		},
		Players: players,
		Payment: &model.Payment{
			ID:            "pay-1",
			TeamID:        "TM0001",
			TransactionID: "UPI-123",
			AmountPaid:    1500,
			PaymentDate:   created,
			Screenshot:    model.ScreenshotRef{URL: "https://files.local/screenshots/TM0001.png"},
			Status:        model.PaymentStatusPending,
		},
	}
}

func TestPDFRenderer_Render(t *testing.T) {
	data, err := NewPDFRenderer().Render(context.Background(), testRegistration())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Greater(t, len(data), 500)
}

func TestPDFRenderer_Incomplete(t *testing.T) {
	tests := []struct {
		name string
		reg  *model.Registration
	}{
		{name: "nil", reg: nil},
		{name: "no team", reg: &model.Registration{Payment: &model.Payment{}}},
		{name: "no payment", reg: &model.Registration{Team: &model.Team{ID: "TM0001"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := NewPDFRenderer().Render(context.Background(), tt.reg)
			assert.Error(t, err)
			assert.Nil(t, data)
		})
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "documents/TM0042_registration.pdf", Key("TM0042"))
}
