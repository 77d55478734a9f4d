package service

import (
	"context"
	"errors"
	"time"

	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/logger"
	"storage-rental-backend/internal/repository"
	"storage-rental-backend/internal/utils"
)

type availabilityService struct {
	units        repository.UnitRepository
	reservations repository.ReservationRepository
}

func NewAvailabilityService(units repository.UnitRepository, reservations repository.ReservationRepository) AvailabilityService {
	return &availabilityService{units: units, reservations: reservations}
}

// findConflict returns the first active reservation of the unit overlapping
// [start, end), skipping excludeID.
func findConflict(ctx context.Context, reservations repository.ReservationRepository, unitID int32, start, end time.Time, excludeID int32) (*domain.Reservation, error) {
	active, err := reservations.ListActiveForUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	return utils.FindConflict(active, start, end, excludeID), nil
}

func (s *availabilityService) IsFree(ctx context.Context, unitID int32, start, end time.Time) (bool, error) {
	if err := utils.ValidateRange(start, end); err != nil {
		return false, err
	}
	conflict, err := findConflict(ctx, s.reservations, unitID, start, end, 0)
	if err != nil {
		return false, err
	}
	return conflict == nil, nil
}

func (s *availabilityService) IsFreeOn(ctx context.Context, unitID int32, date time.Time) (bool, error) {
	start, end := utils.DayRange(date)
	return s.IsFree(ctx, unitID, start, end)
}

func (s *availabilityService) ListFree(ctx context.Context, candidateIDs []int32, date time.Time) ([]int32, error) {
	free := make([]int32, 0, len(candidateIDs))
	seen := make(map[int32]bool, len(candidateIDs))
	for _, id := range candidateIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		unit, err := s.units.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Debug("Skipping unknown candidate unit", "unitID", id)
				continue
			}
			return nil, err
		}
		ok, err := s.eligibleOn(ctx, unit, date)
		if err != nil {
			return nil, err
		}
		if ok {
			free = append(free, id)
		}
	}
	return free, nil
}

func (s *availabilityService) ListFreeInWarehouse(ctx context.Context, warehouseID int32, date time.Time) ([]domain.Unit, error) {
	units, err := s.units.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	free := make([]domain.Unit, 0, len(units))
	for i := range units {
		ok, err := s.eligibleOn(ctx, &units[i], date)
		if err != nil {
			return nil, err
		}
		if ok {
			free = append(free, units[i])
		}
	}
	return free, nil
}

func (s *availabilityService) eligibleOn(ctx context.Context, unit *domain.Unit, date time.Time) (bool, error) {
	if !unit.Bookable() {
		return false, nil
	}
	return s.IsFreeOn(ctx, unit.ID, date)
}
