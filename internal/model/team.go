package model

import "time"

type TeamStatus string

const (
	TeamStatusProvisional TeamStatus = "provisional"
	TeamStatusRegistered  TeamStatus = "registered"
	TeamStatusFailed      TeamStatus = "failed"
)

type Team struct {
	ID          string     `json:"team_id"`
	SportName   string     `json:"sport_name"`
	Status      TeamStatus `json:"status"`
	PlayerIDs   []string   `json:"player_ids"`
	Players     []*Player  `json:"players,omitempty"`
	PaymentID   *string    `json:"payment_id,omitempty"`
	Payment     *Payment   `json:"payment,omitempty"`
	DocumentURL *string    `json:"pdf_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsPaid reports whether a payment has been linked, regardless of its status.
func (t *Team) IsPaid() bool {
	return t.PaymentID != nil
}

// Registration is a finalized team with every reference resolved.
type Registration struct {
	Team    *Team     `json:"team"`
	Players []*Player `json:"players"`
	Payment *Payment  `json:"payment"`
}
