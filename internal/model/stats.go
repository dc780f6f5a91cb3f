package model

// StatusUnpaid is the payment status bucket of registered teams without a payment.
const StatusUnpaid = "unpaid"

type SportStat struct {
	Sport   string `json:"sport"`
	Teams   int64  `json:"teams"`
	Players int64  `json:"players"`
}

type SportCount struct {
	Sport string `json:"sport"`
	Count int64  `json:"count"`
}

type AccommodationStat struct {
	Type         AccommodationType `json:"type"`
	Count        int64             `json:"count"`
	TotalRevenue float64           `json:"total_revenue"`
}

type PaymentStatusStat struct {
	Status string  `json:"status"`
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

type Statistics struct {
	TeamsCount             int64       `json:"teams_count"`
	PlayersCount           int64       `json:"players_count"`
	PaymentsCount          int64       `json:"payments_count"`
	CompletedPaymentsCount int64       `json:"completed_payments_count"`
	PendingPaymentsCount   int64       `json:"pending_payments_count"`
	RejectedPaymentsCount  int64       `json:"rejected_payments_count"`
	UnpaidTeamsCount       int64       `json:"unpaid_teams_count"`
	TotalRevenue           float64     `json:"total_revenue"`
	SportStats             []SportStat `json:"sport_stats"`
}

type DashboardStats struct {
	TotalTeams                int64               `json:"total_teams"`
	TotalPlayers              int64               `json:"total_players"`
	TotalPayments             int64               `json:"total_payments"`
	TotalAmountCollected      float64             `json:"total_amount_collected"`
	SportDistribution         []SportCount        `json:"sport_distribution"`
	AccommodationDistribution []AccommodationStat `json:"accommodation_distribution"`
	PaymentDistribution       []PaymentStatusStat `json:"payment_status_distribution"`
}
