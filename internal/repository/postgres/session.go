package postgres

import (
	"context"
	"time"

	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/logger"
	"storage-rental-backend/internal/repository"
)

type sessionRepository struct {
	db dbtx
}

func NewSessionRepository(db dbtx) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Get(ctx context.Context, token string) (*domain.SessionRow, error) {
	query := `SELECT s.token, s.user_id, u.role, u.name, u.status, s.expires_at, s.last_activity
	          FROM sessions s JOIN users u ON u.id = s.user_id WHERE s.token = $1`
	logger.DatabaseCall("get session", query)

	row := &domain.SessionRow{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&row.Token, &row.UserID, &row.Role, &row.DisplayName, &row.AccountStatus, &row.ExpiresAt, &row.LastActivity)
	if err != nil {
		return nil, wrapErr("get session", err)
	}
	return row, nil
}

func (r *sessionRepository) Touch(ctx context.Context, token string, at time.Time) error {
	query := `UPDATE sessions SET last_activity = $1 WHERE token = $2`
	logger.DatabaseCall("touch session", query)

	res, err := r.db.ExecContext(ctx, query, at, token)
	if err != nil {
		return wrapErr("touch session", err)
	}
	return checkAffected("touch session", res)
}

// Delete is idempotent.
func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE token = $1`
	logger.DatabaseCall("delete session", query)

	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return wrapErr("delete session", err)
	}
	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at <= $1`
	logger.DatabaseCall("delete expired sessions", query, "now", now)

	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, wrapErr("delete expired sessions", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapErr("delete expired sessions", err)
	}
	logger.DatabaseResult("delete expired sessions", n, nil)
	return n, nil
}
