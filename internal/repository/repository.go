package repository

import (
	"context"
	"time"

	"github.com/sr2706/parakram-backend/internal/model"
)

type Team struct {
	ID          string           `db:"id"`
	SportName   string           `db:"sport_name"`
	Status      model.TeamStatus `db:"status"`
	PlayerIDs   []string         `db:"player_ids"`
	PaymentID   *string          `db:"payment_id"`
	DocumentURL *string          `db:"document_url"`
	CreatedAt   time.Time        `db:"created_at"`
}

type Player struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	PhoneNumber     string    `db:"phone_number"`
	CollegeName     string    `db:"college_name"`
	SportName       string    `db:"sport_name"`
	Email           *string   `db:"email"`
	IDCardPicture   *string   `db:"id_card_picture"`
	TeamID          string    `db:"team_id"`
	AccommodationID *string   `db:"accommodation_id"`
	CreatedAt       time.Time `db:"created_at"`
}

type Accommodation struct {
	ID        string                  `db:"id"`
	Type      model.AccommodationType `db:"type"`
	Price     float64                 `db:"price"`
	CreatedAt time.Time               `db:"created_at"`
}

type Payment struct {
	ID                    string              `db:"id"`
	TeamID                string              `db:"team_id"`
	TransactionID         string              `db:"transaction_id"`
	AmountPaid            float64             `db:"amount_paid"`
	PaymentDate           time.Time           `db:"payment_date"`
	ScreenshotURL         string              `db:"screenshot_url"`
	ScreenshotKey         string              `db:"screenshot_key"`
	ScreenshotContentType string              `db:"screenshot_content_type"`
	ScreenshotSize        int64               `db:"screenshot_size"`
	Status                model.PaymentStatus `db:"status"`
	CreatedAt             time.Time           `db:"created_at"`
	UpdatedAt             time.Time           `db:"updated_at"`
}

// SportCount holds registered teams and their players for one sport.
type SportCount struct {
	Sport   string
	Teams   int64
	Players int64
}

type AccommodationCount struct {
	Type    model.AccommodationType
	Count   int64
	Revenue float64
}

type PaymentCount struct {
	Status model.PaymentStatus
	Count  int64
	Amount float64
}

// TeamRepository stores teams. Readers other than Get only see registered teams.
type TeamRepository interface {
	Create(ctx context.Context, team *Team) error
	Get(ctx context.Context, id string) (*Team, error)
	GetForUpdate(ctx context.Context, id string) (*Team, error)
	ListRegistered(ctx context.Context, sport *string) ([]*Team, error)
	// Finalize moves a provisional team to registered and stores its full player list
	// in a single write. ErrConflict when the team is not provisional.
	Finalize(ctx context.Context, id string, playerIDs []string) (*Team, error)
	SetStatus(ctx context.Context, id string, status model.TeamStatus) error
	// SetPayment links a payment. ErrAlreadyExists when the team already has one.
	SetPayment(ctx context.Context, id, paymentID string) error
	SetDocumentURL(ctx context.Context, id, url string) error
}

type PlayerRepository interface {
	Create(ctx context.Context, player *Player) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Player, error)
	GetMany(ctx context.Context, ids []string) ([]*Player, error)
	ListRegistered(ctx context.Context, sport *string) ([]*Player, error)
	// SetAccommodation links an accommodation. ErrAlreadyExists when one is already linked.
	SetAccommodation(ctx context.Context, playerID, accommodationID string) error
}

type AccommodationRepository interface {
	Create(ctx context.Context, a *Accommodation) error
	Delete(ctx context.Context, id string) error
	GetMany(ctx context.Context, ids []string) ([]*Accommodation, error)
}

type PaymentRepository interface {
	// Create inserts a payment. ErrAlreadyExists when the team already has a payment.
	Create(ctx context.Context, payment *Payment) error
	Get(ctx context.Context, id string) (*Payment, error)
	GetByTeam(ctx context.Context, teamID string) (*Payment, error)
	List(ctx context.Context) ([]*Payment, error)
	// UpdateStatus is a compare-and-set on status. ErrConflict when the current status is not from.
	UpdateStatus(ctx context.Context, id string, from, to model.PaymentStatus, at time.Time) (*Payment, error)
}

// CounterRepository hands out sequence values. Next increments and reads in one indivisible step.
type CounterRepository interface {
	Next(ctx context.Context, kind string) (int64, error)
}

// StatsRepository groups registered data by the fixed dashboard keys.
type StatsRepository interface {
	SportCounts(ctx context.Context) ([]*SportCount, error)
	AccommodationCounts(ctx context.Context) ([]*AccommodationCount, error)
	PaymentCounts(ctx context.Context) ([]*PaymentCount, error)
	UnpaidTeams(ctx context.Context) (int64, error)
}

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}
