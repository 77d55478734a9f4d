package service

import (
	"context"
	"errors"

	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/logger"
	"storage-rental-backend/internal/metrics"
	"storage-rental-backend/internal/repository"
)

type sessionService struct {
	sessions repository.SessionRepository
	clock    Clock
	metrics  *metrics.Metrics
}

func NewSessionService(sessions repository.SessionRepository, clock Clock, m *metrics.Metrics) SessionService {
	return &sessionService{sessions: sessions, clock: clock, metrics: m}
}

func (s *sessionService) Validate(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		s.metrics.SessionValidation("not_found")
		return nil, domain.ErrNotFound
	}

	row, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.metrics.SessionValidation("not_found")
		} else {
			s.metrics.SessionValidation("error")
		}
		return nil, err
	}

	now := s.clock.Now()
	if !now.Before(row.ExpiresAt) {
		// Lazy eviction; the caller sees Expired even if the delete fails.
		if err := s.sessions.Delete(ctx, token); err != nil {
			logger.Warn("Failed to evict expired session", "userID", row.UserID, "error", err)
		}
		s.metrics.SessionValidation("expired")
		return nil, domain.ErrSessionExpired
	}

	if row.AccountStatus != domain.AccountStatusActive {
		s.metrics.SessionValidation("inactive")
		return nil, domain.ErrAccountInactive
	}

	if err := s.sessions.Touch(ctx, token, now); err != nil {
		s.metrics.SessionValidation("error")
		return nil, err
	}

	s.metrics.SessionValidation("ok")
	return &domain.Identity{
		UserID:      row.UserID,
		Role:        row.Role,
		DisplayName: row.DisplayName,
	}, nil
}

func (s *sessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrNotFound
	}
	return s.sessions.Delete(ctx, token)
}
