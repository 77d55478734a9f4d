package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storage-rental-backend/internal/domain"
)

func day(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseDate(t *testing.T) {
	t.Run("Valid date", func(t *testing.T) {
		d, err := ParseDate("2025-01-15")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, err := ParseDate("2025/01/15")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "expected yyyy-mm-dd")
	})

	t.Run("Invalid day", func(t *testing.T) {
		_, err := ParseDate("2025-02-30")
		assert.Error(t, err)
	})
}

func TestOverlaps(t *testing.T) {
	a, b := day("2025-01-01"), day("2025-01-10")

	t.Run("Touching boundary is not overlap", func(t *testing.T) {
		assert.False(t, Overlaps(a, b, day("2025-01-10"), day("2025-01-15")))
		assert.False(t, Overlaps(day("2024-12-20"), day("2025-01-01"), a, b))
	})

	t.Run("Partial overlap", func(t *testing.T) {
		assert.True(t, Overlaps(a, b, day("2025-01-09"), day("2025-01-12")))
	})

	t.Run("Containment", func(t *testing.T) {
		assert.True(t, Overlaps(a, b, day("2025-01-03"), day("2025-01-04")))
		assert.True(t, Overlaps(day("2025-01-03"), day("2025-01-04"), a, b))
	})

	t.Run("Identical", func(t *testing.T) {
		assert.True(t, Overlaps(a, b, a, b))
	})
}

func TestDayRange(t *testing.T) {
	start, end := DayRange(time.Date(2025, 3, 31, 17, 45, 0, 0, time.UTC))
	assert.Equal(t, day("2025-03-31"), start)
	assert.Equal(t, day("2025-04-01"), end)
}

func TestValidateRange(t *testing.T) {
	assert.NoError(t, ValidateRange(day("2025-01-01"), day("2025-01-02")))
	assert.ErrorIs(t, ValidateRange(day("2025-01-02"), day("2025-01-02")), domain.ErrInvalidQuote)
	assert.ErrorIs(t, ValidateRange(day("2025-01-03"), day("2025-01-02")), domain.ErrInvalidQuote)
}

func TestFindConflict(t *testing.T) {
	existing := []domain.Reservation{
		{ID: 1, StartDate: day("2025-01-01"), EndDate: day("2025-01-10"), Status: domain.ReservationStatusConfirmed},
		{ID: 2, StartDate: day("2025-02-01"), EndDate: day("2025-02-10"), Status: domain.ReservationStatusCancelled},
		{ID: 3, StartDate: day("2025-03-01"), EndDate: day("2025-03-10"), Status: domain.ReservationStatusPending},
	}

	t.Run("Boundary request is free", func(t *testing.T) {
		assert.Nil(t, FindConflict(existing, day("2025-01-10"), day("2025-01-15"), 0))
	})

	t.Run("Overlap reports the conflicting reservation", func(t *testing.T) {
		c := FindConflict(existing, day("2025-01-09"), day("2025-01-12"), 0)
		require.NotNil(t, c)
		assert.Equal(t, int32(1), c.ID)
	})

	t.Run("Cancelled reservations never conflict", func(t *testing.T) {
		assert.Nil(t, FindConflict(existing, day("2025-02-02"), day("2025-02-05"), 0))
	})

	t.Run("Excluded reservation is ignored", func(t *testing.T) {
		assert.Nil(t, FindConflict(existing, day("2025-03-01"), day("2025-03-10"), 3))
	})
}
