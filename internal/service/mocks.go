package service

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/sr2706/parakram-backend/internal/events"
	"github.com/sr2706/parakram-backend/internal/model"
	"github.com/sr2706/parakram-backend/internal/repository"
	"github.com/sr2706/parakram-backend/internal/storage"
)

type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type MockAllocator struct {
	mock.Mock
}

func (m *MockAllocator) AllocateTeamID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockAllocator) AllocatePlayerID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, team *repository.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) Get(ctx context.Context, id string) (*repository.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Team), args.Error(1)
}

func (m *MockTeamRepository) GetForUpdate(ctx context.Context, id string) (*repository.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Team), args.Error(1)
}

func (m *MockTeamRepository) ListRegistered(ctx context.Context, sport *string) ([]*repository.Team, error) {
	args := m.Called(ctx, sport)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Team), args.Error(1)
}

func (m *MockTeamRepository) Finalize(ctx context.Context, id string, playerIDs []string) (*repository.Team, error) {
	args := m.Called(ctx, id, playerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Team), args.Error(1)
}

func (m *MockTeamRepository) SetStatus(ctx context.Context, id string, status model.TeamStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTeamRepository) SetPayment(ctx context.Context, id, paymentID string) error {
	args := m.Called(ctx, id, paymentID)
	return args.Error(0)
}

func (m *MockTeamRepository) SetDocumentURL(ctx context.Context, id, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) Create(ctx context.Context, player *repository.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPlayerRepository) Get(ctx context.Context, id string) (*repository.Player, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Player), args.Error(1)
}

func (m *MockPlayerRepository) GetMany(ctx context.Context, ids []string) ([]*repository.Player, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Player), args.Error(1)
}

func (m *MockPlayerRepository) ListRegistered(ctx context.Context, sport *string) ([]*repository.Player, error) {
	args := m.Called(ctx, sport)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Player), args.Error(1)
}

func (m *MockPlayerRepository) SetAccommodation(ctx context.Context, playerID, accommodationID string) error {
	args := m.Called(ctx, playerID, accommodationID)
	return args.Error(0)
}

type MockAccommodationRepository struct {
	mock.Mock
}

func (m *MockAccommodationRepository) Create(ctx context.Context, a *repository.Accommodation) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAccommodationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccommodationRepository) GetMany(ctx context.Context, ids []string) ([]*repository.Accommodation, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Accommodation), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, pm *repository.Payment) error {
	args := m.Called(ctx, pm)
	return args.Error(0)
}

func (m *MockPaymentRepository) Get(ctx context.Context, id string) (*repository.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByTeam(ctx context.Context, teamID string) (*repository.Payment, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Payment), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context) ([]*repository.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id string, from, to model.PaymentStatus, at time.Time) (*repository.Payment, error) {
	args := m.Called(ctx, id, from, to, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Payment), args.Error(1)
}

type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) SportCounts(ctx context.Context) ([]*repository.SportCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.SportCount), args.Error(1)
}

func (m *MockStatsRepository) AccommodationCounts(ctx context.Context) ([]*repository.AccommodationCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.AccommodationCount), args.Error(1)
}

func (m *MockStatsRepository) PaymentCounts(ctx context.Context) ([]*repository.PaymentCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.PaymentCount), args.Error(1)
}

func (m *MockStatsRepository) UnpaidTeams(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockFileUploader struct {
	mock.Mock
}

func (m *MockFileUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	args := m.Called(ctx, key, contentType, reader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *MockFileUploader) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockFileUploader) GetPublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, reg *model.Registration) ([]byte, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
