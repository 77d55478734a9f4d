package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/repository"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

// MockUnitRepo
type MockUnitRepo struct {
	mock.Mock
}

func (m *MockUnitRepo) GetByID(ctx context.Context, id int32) (*domain.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}
func (m *MockUnitRepo) ListByWarehouse(ctx context.Context, warehouseID int32) ([]domain.Unit, error) {
	args := m.Called(ctx, warehouseID)
	return args.Get(0).([]domain.Unit), args.Error(1)
}
func (m *MockUnitRepo) UpdateAvailability(ctx context.Context, id int32, availability domain.UnitAvailability) error {
	args := m.Called(ctx, id, availability)
	return args.Error(0)
}

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Create(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListActiveForUnit(ctx context.Context, unitID int32) ([]domain.Reservation, error) {
	args := m.Called(ctx, unitID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListByUnit(ctx context.Context, unitID int32) ([]domain.Reservation, error) {
	args := m.Called(ctx, unitID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListCompletable(ctx context.Context, asOf time.Time) ([]domain.Reservation, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) UpdateStatus(ctx context.Context, id int32, status domain.ReservationStatus, payment *domain.PaymentStatus) error {
	args := m.Called(ctx, id, status, payment)
	return args.Error(0)
}
func (m *MockReservationRepo) UpdatePaymentStatus(ctx context.Context, id int32, payment domain.PaymentStatus) error {
	args := m.Called(ctx, id, payment)
	return args.Error(0)
}
func (m *MockReservationRepo) UpdateContact(ctx context.Context, id int32, info domain.CustomerInfo) error {
	args := m.Called(ctx, id, info)
	return args.Error(0)
}

// MockSessionRepo
type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Get(ctx context.Context, token string) (*domain.SessionRow, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionRow), args.Error(1)
}
func (m *MockSessionRepo) Touch(ctx context.Context, token string, at time.Time) error {
	args := m.Called(ctx, token, at)
	return args.Error(0)
}
func (m *MockSessionRepo) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
func (m *MockSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactor
type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) WithUnitLock(ctx context.Context, unitID int32, fn func(repos repository.Repositories) error) error {
	args := m.Called(ctx, unitID, fn)
	return args.Error(0)
}
