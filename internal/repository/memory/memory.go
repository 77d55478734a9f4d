// Package memory is an in-process store used for local development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/repository"
)

type Store struct {
	mu           sync.RWMutex
	units        map[int32]domain.Unit
	reservations map[int32]domain.Reservation
	sessions     map[string]domain.SessionRow
	nextID       int32

	locksMu sync.Mutex
	locks   map[int32]*sync.Mutex

	repository.UnitRepository
	repository.ReservationRepository
	repository.SessionRepository
}

func NewStore() *Store {
	s := &Store{
		units:        make(map[int32]domain.Unit),
		reservations: make(map[int32]domain.Reservation),
		sessions:     make(map[string]domain.SessionRow),
		locks:        make(map[int32]*sync.Mutex),
	}
	s.UnitRepository = &unitRepository{s: s}
	s.ReservationRepository = &reservationRepository{s: s}
	s.SessionRepository = &sessionRepository{s: s}
	return s
}

func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Units:        s.UnitRepository,
		Reservations: s.ReservationRepository,
		Sessions:     s.SessionRepository,
	}
}

// PutUnit inserts or replaces a unit.
func (s *Store) PutUnit(u domain.Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units[u.ID] = u
}

// PutSession inserts or replaces a session row.
func (s *Store) PutSession(row domain.SessionRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[row.Token] = row
}

func (s *Store) unitLock(unitID int32) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[unitID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[unitID] = l
	}
	return l
}

// WithUnitLock serializes fn against other callers on the same unit. When fn
// fails the unit and its reservations are restored to their prior state.
func (s *Store) WithUnitLock(ctx context.Context, unitID int32, fn func(repos repository.Repositories) error) error {
	l := s.unitLock(unitID)
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("lock unit: %w: %w", domain.ErrUnavailable, err)
	}

	s.mu.RLock()
	unit, ok := s.units[unitID]
	saved := make(map[int32]domain.Reservation)
	for id, r := range s.reservations {
		if r.UnitID == unitID {
			saved[id] = r
		}
	}
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("lock unit: %w", domain.ErrNotFound)
	}

	if err := fn(s.Repositories()); err != nil {
		s.mu.Lock()
		s.units[unitID] = unit
		for id, r := range s.reservations {
			if r.UnitID == unitID {
				delete(s.reservations, id)
			}
		}
		for id, r := range saved {
			s.reservations[id] = r
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

type unitRepository struct {
	s *Store
}

func (r *unitRepository) GetByID(ctx context.Context, id int32) (*domain.Unit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.units[id]
	if !ok {
		return nil, fmt.Errorf("get unit: %w", domain.ErrNotFound)
	}
	return &u, nil
}

func (r *unitRepository) ListByWarehouse(ctx context.Context, warehouseID int32) ([]domain.Unit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var units []domain.Unit
	for _, u := range r.s.units {
		if u.WarehouseID == warehouseID {
			units = append(units, u)
		}
	}
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	return units, nil
}

func (r *unitRepository) UpdateAvailability(ctx context.Context, id int32, availability domain.UnitAvailability) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.units[id]
	if !ok {
		return fmt.Errorf("update unit availability: %w", domain.ErrNotFound)
	}
	u.Availability = availability
	u.UpdatedOn = time.Now().UTC()
	r.s.units[id] = u
	return nil
}

type reservationRepository struct {
	s *Store
}

func (r *reservationRepository) Create(ctx context.Context, rs *domain.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextID++
	now := time.Now().UTC()
	rs.ID = r.s.nextID
	rs.CreatedOn = now
	rs.UpdatedOn = now
	r.s.reservations[rs.ID] = *rs
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rs, ok := r.s.reservations[id]
	if !ok {
		return nil, fmt.Errorf("get reservation: %w", domain.ErrNotFound)
	}
	return &rs, nil
}

func (r *reservationRepository) filter(keep func(domain.Reservation) bool, less func(a, b domain.Reservation) bool) []domain.Reservation {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Reservation
	for _, rs := range r.s.reservations {
		if keep(rs) {
			out = append(out, rs)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func byStart(a, b domain.Reservation) bool {
	if a.StartDate.Equal(b.StartDate) {
		return a.ID < b.ID
	}
	return a.StartDate.Before(b.StartDate)
}

func (r *reservationRepository) ListActiveForUnit(ctx context.Context, unitID int32) ([]domain.Reservation, error) {
	return r.filter(func(rs domain.Reservation) bool {
		return rs.UnitID == unitID && rs.Active()
	}, byStart), nil
}

func (r *reservationRepository) ListByUnit(ctx context.Context, unitID int32) ([]domain.Reservation, error) {
	return r.filter(func(rs domain.Reservation) bool {
		return rs.UnitID == unitID
	}, func(a, b domain.Reservation) bool { return byStart(b, a) }), nil
}

func (r *reservationRepository) ListCompletable(ctx context.Context, asOf time.Time) ([]domain.Reservation, error) {
	return r.filter(func(rs domain.Reservation) bool {
		return rs.Status == domain.ReservationStatusConfirmed &&
			rs.PaymentStatus == domain.PaymentStatusPaid &&
			!rs.EndDate.After(asOf)
	}, func(a, b domain.Reservation) bool { return a.EndDate.Before(b.EndDate) }), nil
}

func (r *reservationRepository) update(op string, id int32, apply func(rs *domain.Reservation)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rs, ok := r.s.reservations[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	apply(&rs)
	rs.UpdatedOn = time.Now().UTC()
	r.s.reservations[id] = rs
	return nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id int32, status domain.ReservationStatus, payment *domain.PaymentStatus) error {
	return r.update("update reservation status", id, func(rs *domain.Reservation) {
		rs.Status = status
		if payment != nil {
			rs.PaymentStatus = *payment
		}
	})
}

func (r *reservationRepository) UpdatePaymentStatus(ctx context.Context, id int32, payment domain.PaymentStatus) error {
	return r.update("update payment status", id, func(rs *domain.Reservation) {
		rs.PaymentStatus = payment
	})
}

func (r *reservationRepository) UpdateContact(ctx context.Context, id int32, info domain.CustomerInfo) error {
	return r.update("update reservation contact", id, func(rs *domain.Reservation) {
		rs.CustomerName = info.Name
		rs.CustomerEmail = info.Email
		rs.CustomerPhone = info.Phone
	})
}

type sessionRepository struct {
	s *Store
}

func (r *sessionRepository) Get(ctx context.Context, token string) (*domain.SessionRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.sessions[token]
	if !ok {
		return nil, fmt.Errorf("get session: %w", domain.ErrNotFound)
	}
	return &row, nil
}

func (r *sessionRepository) Touch(ctx context.Context, token string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.sessions[token]
	if !ok {
		return fmt.Errorf("touch session: %w", domain.ErrNotFound)
	}
	row.LastActivity = at
	r.s.sessions[token] = row
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, token)
	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for token, row := range r.s.sessions {
		if !now.Before(row.ExpiresAt) {
			delete(r.s.sessions, token)
			n++
		}
	}
	return n, nil
}
