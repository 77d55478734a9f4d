package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"storage-rental-backend/internal/config"
	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/logger"
	"storage-rental-backend/internal/security"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		return route.GetName()
	}
	return ""
}

// instrument tags the request with an id, records latency and logs the outcome.
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		route := routeName(r)
		h.metrics.ObserveRequest(route, strconv.Itoa(rec.status), elapsed)
		logger.Debug("HTTP request",
			"requestID", requestID,
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"duration", elapsed)
	})
}

// authenticate enforces the route's security level and stores the caller's
// identity in the request context.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.GetSecurityLevel(routeName(r))

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token, err := security.ExtractToken(r)
		if err != nil {
			h.writeUnauthenticated(w, "session token is not provided")
			return
		}

		identity, err := h.sessions.Validate(r.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				h.writeUnauthenticated(w, "session not found")
				return
			}
			h.writeError(w, r, err)
			return
		}

		if level == config.SecurityAdmin && !identity.IsAdmin() {
			h.writeError(w, r, domain.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity, token)))
	})
}
