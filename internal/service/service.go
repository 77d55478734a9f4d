package service

import (
	"context"
	"time"

	"storage-rental-backend/internal/domain"
)

// Clock supplies the current time to services.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type SessionService interface {
	Validate(ctx context.Context, token string) (*domain.Identity, error)
	Logout(ctx context.Context, token string) error
}

type PricingService interface {
	Quote(ctx context.Context, unitID int32, quantity, durationMonths int, addonKey string) (*domain.PriceBreakdown, error)
	// QuoteUnit prices an already loaded unit and reports the resolved add-on.
	QuoteUnit(unit *domain.Unit, quantity, durationMonths int, addonKey string) (*domain.PriceBreakdown, *domain.Addon, error)
	// ValidateInput rejects quote inputs without touching the store.
	ValidateInput(quantity, durationMonths int, addonKey string) error
	Addons() []domain.Addon
}

type AvailabilityService interface {
	IsFree(ctx context.Context, unitID int32, start, end time.Time) (bool, error)
	IsFreeOn(ctx context.Context, unitID int32, date time.Time) (bool, error)
	ListFree(ctx context.Context, candidateIDs []int32, date time.Time) ([]int32, error)
	ListFreeInWarehouse(ctx context.Context, warehouseID int32, date time.Time) ([]domain.Unit, error)
}

// CreateBookingInput carries a booking request. AddonKey selects an entry of
// the configured add-on catalog; empty or "none" means no add-on.
type CreateBookingInput struct {
	UnitID         int32
	UserID         int32
	StartDate      time.Time
	EndDate        time.Time
	Quantity       int
	DurationMonths int
	AddonKey       string
	Customer       domain.CustomerInfo
}

type BookingService interface {
	Create(ctx context.Context, in CreateBookingInput) (*domain.Reservation, error)
	ConfirmCustomerInfo(ctx context.Context, reservationID int32, info domain.CustomerInfo) (*domain.Reservation, error)
	Finalize(ctx context.Context, reservationID int32) (*domain.Reservation, error)
	Cancel(ctx context.Context, reservationID int32) (*domain.Reservation, error)
	Complete(ctx context.Context, reservationID int32) (*domain.Reservation, error)
	RecordPayment(ctx context.Context, reservationID int32, status domain.PaymentStatus) (*domain.Reservation, error)
	Get(ctx context.Context, reservationID int32) (*domain.Reservation, error)
	ListForUnit(ctx context.Context, unitID int32) ([]domain.Reservation, error)
	DecodeNotes(r *domain.Reservation) domain.NotesResult
}
