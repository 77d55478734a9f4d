package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidQuote      = errors.New("invalid quote")
	ErrUnitUnavailable   = errors.New("unit unavailable")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNotFound          = errors.New("not found")
	ErrSessionExpired    = errors.New("session expired")
	ErrAccountInactive   = errors.New("account inactive")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")

	// ErrUnavailable marks persistence connectivity failures. Callers decide
	// whether to retry.
	ErrUnavailable = errors.New("store unavailable")
)

// UnavailableError reports why a unit cannot take the requested interval.
// ConflictID is zero when the unit itself is not bookable.
type UnavailableError struct {
	UnitID     int32
	Start      time.Time
	End        time.Time
	ConflictID int32
}

func (e *UnavailableError) Error() string {
	if e.ConflictID == 0 {
		return fmt.Sprintf("unit %d is not bookable", e.UnitID)
	}
	return fmt.Sprintf("unit %d is already reserved between %s and %s (reservation %d)",
		e.UnitID, e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"), e.ConflictID)
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnitUnavailable
}

// TransitionError reports an illegal lifecycle move.
type TransitionError struct {
	ReservationID int32
	From          ReservationStatus
	To            ReservationStatus
	Reason        string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("reservation %d cannot move from %s to %s", e.ReservationID, e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
