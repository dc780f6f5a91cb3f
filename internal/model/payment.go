package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusRejected  PaymentStatus = "rejected"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {PaymentStatusCompleted, PaymentStatusRejected},
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether an administrator may move a payment from s to next.
func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type ScreenshotRef struct {
	URL         string `json:"url" validate:"required,url"`
	Key         string `json:"key,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

type Payment struct {
	ID            string        `json:"payment_id"`
	TeamID        string        `json:"team_id"`
	TransactionID string        `json:"transaction_id"`
	AmountPaid    float64       `json:"amount_paid"`
	PaymentDate   time.Time     `json:"payment_date"`
	Screenshot    ScreenshotRef `json:"payment_screenshot"`
	Status        PaymentStatus `json:"status"`
	Team          *Team         `json:"team,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type PaymentScreenshot struct {
	TeamID        string `json:"team_id"`
	PaymentID     string `json:"payment_id"`
	ScreenshotURL string `json:"screenshot_url"`
}
