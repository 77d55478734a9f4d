package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/logger"
	"storage-rental-backend/internal/repository"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.UnitRepository
	repository.ReservationRepository
	repository.SessionRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		UnitRepository:        NewUnitRepository(db),
		ReservationRepository: NewReservationRepository(db),
		SessionRepository:     NewSessionRepository(db),
	}
}

// Repositories returns gateways bound to the pooled connection.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Units:        s.UnitRepository,
		Reservations: s.ReservationRepository,
		Sessions:     s.SessionRepository,
	}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return wrapErr("ping", err)
	}
	return nil
}

// WithUnitLock runs fn in one transaction holding a row lock on the unit.
func (s *Store) WithUnitLock(ctx context.Context, unitID int32, fn func(repos repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("begin transaction", err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.Warn("Rollback failed", "unitID", unitID, "error", rbErr)
			}
		}
	}()

	query := `SELECT id FROM units WHERE id = $1 FOR UPDATE`
	logger.DatabaseCall("lock unit", query, "unitID", unitID)
	var lockedID int32
	if err := tx.QueryRowContext(ctx, query, unitID).Scan(&lockedID); err != nil {
		return wrapErr("lock unit", err)
	}

	repos := repository.Repositories{
		Units:        &unitRepository{db: tx},
		Reservations: &reservationRepository{db: tx},
		Sessions:     &sessionRepository{db: tx},
	}
	if err := fn(repos); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return wrapErr("commit transaction", err)
	}
	committed = true
	return nil
}

// wrapErr maps driver failures onto the domain taxonomy.
func wrapErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
}

// checkAffected turns a zero-row update into ErrNotFound.
func checkAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}
