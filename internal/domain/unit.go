package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type UnitStatus string

const (
	UnitStatusActive   UnitStatus = "active"
	UnitStatusInactive UnitStatus = "inactive"
)

// UnitAvailability is the cached availability flag of a unit. It is a fast-path
// default for undated browsing; dated availability always comes from
// reservation overlap.
type UnitAvailability string

const (
	UnitAvailabilityFree             UnitAvailability = "free"
	UnitAvailabilityOccupied         UnitAvailability = "occupied"
	UnitAvailabilityUnderMaintenance UnitAvailability = "under_maintenance"
	UnitAvailabilityWithdrawn        UnitAvailability = "withdrawn"
)

type Unit struct {
	ID              int32            `json:"id"`
	WarehouseID     int32            `json:"warehouse_id"`
	Name            string           `json:"name"`
	BaseMonthlyRate decimal.Decimal  `json:"base_monthly_rate"`
	Status          UnitStatus       `json:"status"`
	Availability    UnitAvailability `json:"availability"`
	CreatedOn       time.Time        `json:"created_on"`
	UpdatedOn       time.Time        `json:"updated_on"`
}

// Bookable reports the date-independent eligibility of a unit.
func (u *Unit) Bookable() bool {
	if u.Status != UnitStatusActive {
		return false
	}
	switch u.Availability {
	case UnitAvailabilityWithdrawn, UnitAvailabilityUnderMaintenance:
		return false
	}
	return true
}
