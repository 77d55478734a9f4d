package repository

import (
	"context"
	"time"

	"storage-rental-backend/internal/domain"
)

type UnitRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Unit, error)
	ListByWarehouse(ctx context.Context, warehouseID int32) ([]domain.Unit, error)
	// UpdateAvailability writes the cached availability flag only.
	UpdateAvailability(ctx context.Context, id int32, availability domain.UnitAvailability) error
}

type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	// ListActiveForUnit returns pending and confirmed reservations of a unit.
	ListActiveForUnit(ctx context.Context, unitID int32) ([]domain.Reservation, error)
	ListByUnit(ctx context.Context, unitID int32) ([]domain.Reservation, error)
	// ListCompletable returns confirmed, paid reservations whose end date is on or before asOf.
	ListCompletable(ctx context.Context, asOf time.Time) ([]domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int32, status domain.ReservationStatus, payment *domain.PaymentStatus) error
	UpdatePaymentStatus(ctx context.Context, id int32, payment domain.PaymentStatus) error
	UpdateContact(ctx context.Context, id int32, info domain.CustomerInfo) error
}

type SessionRepository interface {
	// Get returns the session joined with its owning account.
	Get(ctx context.Context, token string) (*domain.SessionRow, error)
	Touch(ctx context.Context, token string, at time.Time) error
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Repositories is the set of gateways bound to one connection or transaction.
type Repositories struct {
	Units        UnitRepository
	Reservations ReservationRepository
	Sessions     SessionRepository
}

// Transactor serializes mutations per unit. All writes performed through the
// Repositories handed to fn commit together or not at all.
type Transactor interface {
	WithUnitLock(ctx context.Context, unitID int32, fn func(repos Repositories) error) error
}
