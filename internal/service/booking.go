package service

import (
	"context"
	"errors"
	"fmt"

	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/logger"
	"storage-rental-backend/internal/metrics"
	"storage-rental-backend/internal/repository"
	"storage-rental-backend/internal/utils"
)

type bookingService struct {
	tx           repository.Transactor
	reservations repository.ReservationRepository
	pricing      PricingService
	clock        Clock
	metrics      *metrics.Metrics
}

func NewBookingService(
	tx repository.Transactor,
	reservations repository.ReservationRepository,
	pricing PricingService,
	clock Clock,
	m *metrics.Metrics,
) BookingService {
	return &bookingService{
		tx:           tx,
		reservations: reservations,
		pricing:      pricing,
		clock:        clock,
		metrics:      m,
	}
}

func (s *bookingService) Create(ctx context.Context, in CreateBookingInput) (*domain.Reservation, error) {
	logger.EnterMethod("bookingService.Create", "unitID", in.UnitID, "userID", in.UserID)

	start := utils.TruncateDay(in.StartDate)
	end := utils.TruncateDay(in.EndDate)
	if err := utils.ValidateRange(start, end); err != nil {
		return nil, s.fail("create", err, "unitID", in.UnitID)
	}
	if err := s.pricing.ValidateInput(in.Quantity, in.DurationMonths, in.AddonKey); err != nil {
		return nil, s.fail("create", err, "unitID", in.UnitID)
	}

	var created *domain.Reservation
	err := s.tx.WithUnitLock(ctx, in.UnitID, func(repos repository.Repositories) error {
		unit, err := repos.Units.GetByID(ctx, in.UnitID)
		if err != nil {
			return err
		}
		if !unit.Bookable() {
			return &domain.UnavailableError{UnitID: unit.ID, Start: start, End: end}
		}

		conflict, err := findConflict(ctx, repos.Reservations, unit.ID, start, end, 0)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &domain.UnavailableError{UnitID: unit.ID, Start: conflict.StartDate, End: conflict.EndDate, ConflictID: conflict.ID}
		}

		breakdown, addon, err := s.pricing.QuoteUnit(unit, in.Quantity, in.DurationMonths, in.AddonKey)
		if err != nil {
			return err
		}

		r := &domain.Reservation{
			UnitID:        unit.ID,
			UserID:        in.UserID,
			CustomerName:  in.Customer.Name,
			CustomerEmail: in.Customer.Email,
			CustomerPhone: in.Customer.Phone,
			StartDate:     start,
			EndDate:       end,
			QuotedTotal:   breakdown.GrandTotal,
			Status:        domain.ReservationStatusPending,
			PaymentStatus: domain.PaymentStatusPending,
			Notes: utils.FormatNotes(domain.BookingNotes{
				Quantity:       breakdown.Quantity,
				DurationMonths: breakdown.DurationMonths,
				AddonName:      addon.Name,
				AddonCost:      breakdown.AddonCost,
			}),
		}
		if err := repos.Reservations.Create(ctx, r); err != nil {
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, s.fail("create", err, "unitID", in.UnitID)
	}

	s.metrics.BookingOperation("create", "ok")
	logger.ExitMethod("bookingService.Create", "reservationID", created.ID, "total", utils.FormatAmount(created.QuotedTotal))
	return created, nil
}

func (s *bookingService) ConfirmCustomerInfo(ctx context.Context, reservationID int32, info domain.CustomerInfo) (*domain.Reservation, error) {
	return s.mutate(ctx, "confirm_customer", reservationID, func(repos repository.Repositories, r *domain.Reservation) error {
		if r.Status != domain.ReservationStatusPending {
			return &domain.TransitionError{
				ReservationID: r.ID,
				From:          r.Status,
				To:            r.Status,
				Reason:        "customer details can only change while pending",
			}
		}
		return repos.Reservations.UpdateContact(ctx, r.ID, info)
	})
}

func (s *bookingService) Finalize(ctx context.Context, reservationID int32) (*domain.Reservation, error) {
	return s.mutate(ctx, "finalize", reservationID, func(repos repository.Repositories, r *domain.Reservation) error {
		if err := checkTransition(r, domain.ReservationStatusConfirmed); err != nil {
			return err
		}

		conflict, err := findConflict(ctx, repos.Reservations, r.UnitID, r.StartDate, r.EndDate, r.ID)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &domain.UnavailableError{UnitID: r.UnitID, Start: conflict.StartDate, End: conflict.EndDate, ConflictID: conflict.ID}
		}

		if err := repos.Reservations.UpdateStatus(ctx, r.ID, domain.ReservationStatusConfirmed, nil); err != nil {
			return err
		}

		unit, err := repos.Units.GetByID(ctx, r.UnitID)
		if err != nil {
			return err
		}
		// Maintenance and withdrawal flags are operator owned and stay put.
		if unit.Availability == domain.UnitAvailabilityFree {
			return repos.Units.UpdateAvailability(ctx, unit.ID, domain.UnitAvailabilityOccupied)
		}
		return nil
	})
}

func (s *bookingService) Cancel(ctx context.Context, reservationID int32) (*domain.Reservation, error) {
	return s.mutate(ctx, "cancel", reservationID, func(repos repository.Repositories, r *domain.Reservation) error {
		if err := checkTransition(r, domain.ReservationStatusCancelled); err != nil {
			return err
		}
		if err := repos.Reservations.UpdateStatus(ctx, r.ID, domain.ReservationStatusCancelled, nil); err != nil {
			return err
		}
		return releaseUnit(ctx, repos, r.UnitID)
	})
}

func (s *bookingService) Complete(ctx context.Context, reservationID int32) (*domain.Reservation, error) {
	return s.mutate(ctx, "complete", reservationID, func(repos repository.Repositories, r *domain.Reservation) error {
		if err := checkTransition(r, domain.ReservationStatusCompleted); err != nil {
			return err
		}
		if s.clock.Now().Before(r.EndDate) {
			return &domain.TransitionError{
				ReservationID: r.ID,
				From:          r.Status,
				To:            domain.ReservationStatusCompleted,
				Reason:        "end date has not elapsed",
			}
		}
		if r.PaymentStatus != domain.PaymentStatusPaid {
			return &domain.TransitionError{
				ReservationID: r.ID,
				From:          r.Status,
				To:            domain.ReservationStatusCompleted,
				Reason:        fmt.Sprintf("payment status is %s", r.PaymentStatus),
			}
		}
		if err := repos.Reservations.UpdateStatus(ctx, r.ID, domain.ReservationStatusCompleted, nil); err != nil {
			return err
		}
		return releaseUnit(ctx, repos, r.UnitID)
	})
}

func (s *bookingService) RecordPayment(ctx context.Context, reservationID int32, status domain.PaymentStatus) (*domain.Reservation, error) {
	if !status.Valid() {
		return nil, s.fail("record_payment", fmt.Errorf("%w: unknown payment status %q", domain.ErrInvalidInput, status), "reservationID", reservationID)
	}
	return s.mutate(ctx, "record_payment", reservationID, func(repos repository.Repositories, r *domain.Reservation) error {
		if !r.Active() {
			return &domain.TransitionError{
				ReservationID: r.ID,
				From:          r.Status,
				To:            r.Status,
				Reason:        "payment can only be recorded on pending or confirmed reservations",
			}
		}
		return repos.Reservations.UpdatePaymentStatus(ctx, r.ID, status)
	})
}

func (s *bookingService) Get(ctx context.Context, reservationID int32) (*domain.Reservation, error) {
	return s.reservations.GetByID(ctx, reservationID)
}

func (s *bookingService) ListForUnit(ctx context.Context, unitID int32) ([]domain.Reservation, error) {
	return s.reservations.ListByUnit(ctx, unitID)
}

func (s *bookingService) DecodeNotes(r *domain.Reservation) domain.NotesResult {
	return utils.ParseNotes(r.Notes)
}

// mutate runs fn under the reservation's unit lock against a fresh read of the
// reservation and returns the reservation as stored afterwards.
func (s *bookingService) mutate(ctx context.Context, op string, reservationID int32, fn func(repos repository.Repositories, r *domain.Reservation) error) (*domain.Reservation, error) {
	method := "bookingService." + op
	logger.EnterMethod(method, "reservationID", reservationID)

	current, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, s.fail(op, err, "reservationID", reservationID)
	}

	var updated *domain.Reservation
	err = s.tx.WithUnitLock(ctx, current.UnitID, func(repos repository.Repositories) error {
		r, err := repos.Reservations.GetByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if err := fn(repos, r); err != nil {
			return err
		}
		updated, err = repos.Reservations.GetByID(ctx, reservationID)
		return err
	})
	if err != nil {
		return nil, s.fail(op, err, "reservationID", reservationID)
	}

	s.metrics.BookingOperation(op, "ok")
	logger.ExitMethod(method, "reservationID", reservationID, "status", updated.Status)
	return updated, nil
}

func (s *bookingService) fail(op string, err error, args ...any) error {
	s.metrics.BookingOperation(op, resultLabel(err))
	logger.ExitMethodWithError("bookingService."+op, err, !errors.Is(err, domain.ErrUnavailable), args...)
	return err
}

func checkTransition(r *domain.Reservation, to domain.ReservationStatus) error {
	if !domain.CanTransition(r.Status, to) {
		return &domain.TransitionError{ReservationID: r.ID, From: r.Status, To: to}
	}
	return nil
}

// releaseUnit resets an occupied unit to free once it has no active reservations.
func releaseUnit(ctx context.Context, repos repository.Repositories, unitID int32) error {
	active, err := repos.Reservations.ListActiveForUnit(ctx, unitID)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return nil
	}
	unit, err := repos.Units.GetByID(ctx, unitID)
	if err != nil {
		return err
	}
	if unit.Availability != domain.UnitAvailabilityOccupied {
		return nil
	}
	return repos.Units.UpdateAvailability(ctx, unitID, domain.UnitAvailabilityFree)
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidQuote):
		return "invalid_quote"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrUnitUnavailable):
		return "unit_unavailable"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
