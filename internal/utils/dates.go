package utils

import (
	"fmt"
	"time"

	"storage-rental-backend/internal/domain"
)

const DateLayout = "2006-01-02"

// ParseDate converts a yyyy-mm-dd string into a UTC midnight.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, dateStr, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd", dateStr)
	}
	return t, nil
}

// TruncateDay drops the clock part of t, in UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayRange returns the single-day interval [day, day+1).
func DayRange(day time.Time) (time.Time, time.Time) {
	start := TruncateDay(day)
	return start, start.AddDate(0, 0, 1)
}

// Overlaps reports whether the half-open intervals [a, b) and [c, d) intersect.
// Touching boundaries do not overlap.
func Overlaps(a, b, c, d time.Time) bool {
	return a.Before(d) && c.Before(b)
}

// ValidateRange requires start strictly before end.
func ValidateRange(start, end time.Time) error {
	if !start.Before(end) {
		return fmt.Errorf("%w: start date %s must be before end date %s",
			domain.ErrInvalidQuote, start.Format(DateLayout), end.Format(DateLayout))
	}
	return nil
}

// FindConflict returns the first active reservation overlapping [start, end),
// ignoring the reservation with excludeID. It returns nil when none overlaps.
func FindConflict(reservations []domain.Reservation, start, end time.Time, excludeID int32) *domain.Reservation {
	for i := range reservations {
		r := &reservations[i]
		if excludeID != 0 && r.ID == excludeID {
			continue
		}
		if !r.Active() {
			continue
		}
		if Overlaps(r.StartDate, r.EndDate, start, end) {
			return r
		}
	}
	return nil
}
