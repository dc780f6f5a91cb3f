// Package events publishes domain notifications after registration and payment
// changes have been committed. Delivery is best effort.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeTeamRegistered       = "team.registered"
	TypePaymentAttached      = "payment.attached"
	TypePaymentStatusChanged = "payment.status_changed"
)

type Event struct {
	ID         uuid.UUID `json:"event_id"`
	Type       string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func New(eventType string, payload any, at time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: at.UTC(),
		Payload:    payload,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type TeamRegistered struct {
	TeamID    string   `json:"team_id"`
	SportName string   `json:"sport_name"`
	PlayerIDs []string `json:"player_ids"`
}

type PaymentAttached struct {
	PaymentID     string  `json:"payment_id"`
	TeamID        string  `json:"team_id"`
	TransactionID string  `json:"transaction_id"`
	AmountPaid    float64 `json:"amount_paid"`
}

type PaymentStatusChanged struct {
	PaymentID string `json:"payment_id"`
	TeamID    string `json:"team_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}
