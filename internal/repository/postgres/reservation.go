package postgres

import (
	"context"
	"time"

	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/logger"
	"storage-rental-backend/internal/repository"
)

const reservationColumns = `id, unit_id, user_id, customer_name, customer_email, customer_phone, start_date, end_date, quoted_total, status, payment_status, notes, created_on, updated_on`

type reservationRepository struct {
	db dbtx
}

func NewReservationRepository(db dbtx) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

func scanReservation(row rowScanner, rs *domain.Reservation) error {
	err := row.Scan(&rs.ID, &rs.UnitID, &rs.UserID, &rs.CustomerName, &rs.CustomerEmail, &rs.CustomerPhone,
		&rs.StartDate, &rs.EndDate, &rs.QuotedTotal, &rs.Status, &rs.PaymentStatus, &rs.Notes, &rs.CreatedOn, &rs.UpdatedOn)
	if err != nil {
		return err
	}
	rs.StartDate = rs.StartDate.UTC()
	rs.EndDate = rs.EndDate.UTC()
	return nil
}

func (r *reservationRepository) Create(ctx context.Context, rs *domain.Reservation) error {
	query := `INSERT INTO reservations (unit_id, user_id, customer_name, customer_email, customer_phone, start_date, end_date, quoted_total, status, payment_status, notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	logger.DatabaseCall("create reservation", query, "unitID", rs.UnitID, "userID", rs.UserID)

	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query, rs.UnitID, rs.UserID, rs.CustomerName, rs.CustomerEmail, rs.CustomerPhone,
		rs.StartDate, rs.EndDate, rs.QuotedTotal, rs.Status, rs.PaymentStatus, rs.Notes, now, now).Scan(&rs.ID)
	if err != nil {
		return wrapErr("create reservation", err)
	}
	rs.CreatedOn = now
	rs.UpdatedOn = now
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	logger.DatabaseCall("get reservation", query, "reservationID", id)

	rs := &domain.Reservation{}
	if err := scanReservation(r.db.QueryRowContext(ctx, query, id), rs); err != nil {
		return nil, wrapErr("get reservation", err)
	}
	return rs, nil
}

func (r *reservationRepository) ListActiveForUnit(ctx context.Context, unitID int32) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE unit_id = $1 AND status IN ('pending', 'confirmed') ORDER BY start_date`
	return r.list(ctx, "list active reservations", query, unitID)
}

func (r *reservationRepository) ListByUnit(ctx context.Context, unitID int32) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE unit_id = $1 ORDER BY start_date DESC`
	return r.list(ctx, "list unit reservations", query, unitID)
}

func (r *reservationRepository) ListCompletable(ctx context.Context, asOf time.Time) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE status = 'confirmed' AND payment_status = 'paid' AND end_date <= $1 ORDER BY end_date`
	return r.list(ctx, "list completable reservations", query, asOf)
}

func (r *reservationRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.Reservation, error) {
	logger.DatabaseCall(op, query, "args", args)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var rs domain.Reservation
		if err := scanReservation(rows, &rs); err != nil {
			return nil, wrapErr(op, err)
		}
		reservations = append(reservations, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	logger.DatabaseResult(op, int64(len(reservations)), nil)
	return reservations, nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id int32, status domain.ReservationStatus, payment *domain.PaymentStatus) error {
	var (
		query string
		args  []any
	)
	now := time.Now().UTC()
	if payment != nil {
		query = `UPDATE reservations SET status = $1, payment_status = $2, updated_on = $3 WHERE id = $4`
		args = []any{status, *payment, now, id}
	} else {
		query = `UPDATE reservations SET status = $1, updated_on = $2 WHERE id = $3`
		args = []any{status, now, id}
	}
	logger.DatabaseCall("update reservation status", query, "reservationID", id, "status", status)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapErr("update reservation status", err)
	}
	return checkAffected("update reservation status", res)
}

func (r *reservationRepository) UpdatePaymentStatus(ctx context.Context, id int32, payment domain.PaymentStatus) error {
	query := `UPDATE reservations SET payment_status = $1, updated_on = $2 WHERE id = $3`
	logger.DatabaseCall("update payment status", query, "reservationID", id, "paymentStatus", payment)

	res, err := r.db.ExecContext(ctx, query, payment, time.Now().UTC(), id)
	if err != nil {
		return wrapErr("update payment status", err)
	}
	return checkAffected("update payment status", res)
}

func (r *reservationRepository) UpdateContact(ctx context.Context, id int32, info domain.CustomerInfo) error {
	query := `UPDATE reservations SET customer_name = $1, customer_email = $2, customer_phone = $3, updated_on = $4 WHERE id = $5`
	logger.DatabaseCall("update reservation contact", query, "reservationID", id)

	res, err := r.db.ExecContext(ctx, query, info.Name, info.Email, info.Phone, time.Now().UTC(), id)
	if err != nil {
		return wrapErr("update reservation contact", err)
	}
	return checkAffected("update reservation contact", res)
}
