package postgres

import (
	"context"
	"time"

	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/logger"
	"storage-rental-backend/internal/repository"
)

const unitColumns = `id, warehouse_id, name, base_monthly_rate, status, availability, created_on, updated_on`

type unitRepository struct {
	db dbtx
}

func NewUnitRepository(db dbtx) repository.UnitRepository {
	return &unitRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUnit(row rowScanner, u *domain.Unit) error {
	return row.Scan(&u.ID, &u.WarehouseID, &u.Name, &u.BaseMonthlyRate, &u.Status, &u.Availability, &u.CreatedOn, &u.UpdatedOn)
}

func (r *unitRepository) GetByID(ctx context.Context, id int32) (*domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE id = $1`
	logger.DatabaseCall("get unit", query, "unitID", id)

	u := &domain.Unit{}
	if err := scanUnit(r.db.QueryRowContext(ctx, query, id), u); err != nil {
		return nil, wrapErr("get unit", err)
	}
	return u, nil
}

func (r *unitRepository) ListByWarehouse(ctx context.Context, warehouseID int32) ([]domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE warehouse_id = $1 ORDER BY id`
	logger.DatabaseCall("list units", query, "warehouseID", warehouseID)

	rows, err := r.db.QueryContext(ctx, query, warehouseID)
	if err != nil {
		return nil, wrapErr("list units", err)
	}
	defer rows.Close()

	var units []domain.Unit
	for rows.Next() {
		var u domain.Unit
		if err := scanUnit(rows, &u); err != nil {
			return nil, wrapErr("list units", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list units", err)
	}
	return units, nil
}

func (r *unitRepository) UpdateAvailability(ctx context.Context, id int32, availability domain.UnitAvailability) error {
	query := `UPDATE units SET availability = $1, updated_on = $2 WHERE id = $3`
	logger.DatabaseCall("update unit availability", query, "unitID", id, "availability", availability)

	res, err := r.db.ExecContext(ctx, query, availability, time.Now().UTC(), id)
	if err != nil {
		return wrapErr("update unit availability", err)
	}
	return checkAffected("update unit availability", res)
}
