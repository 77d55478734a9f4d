package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/metrics"
	"storage-rental-backend/internal/repository/memory"
	"storage-rental-backend/internal/service"
	"storage-rental-backend/internal/utils"
)

type stubClock struct{ now time.Time }

func (c *stubClock) Now() time.Time { return c.now }

type testServer struct {
	router http.Handler
	store  *memory.Store
	clock  *stubClock
}

const (
	customerToken = "customer-token"
	otherToken    = "other-token"
	adminToken    = "admin-token"
	expiredToken  = "expired-token"
	inactiveToken = "inactive-token"
)

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	clock := &stubClock{now: now}
	store := memory.NewStore()

	store.PutUnit(domain.Unit{ID: 7, WarehouseID: 1, Name: "A-07", BaseMonthlyRate: decimal.NewFromInt(5000),
		Status: domain.UnitStatusActive, Availability: domain.UnitAvailabilityFree})
	store.PutUnit(domain.Unit{ID: 8, WarehouseID: 1, Name: "A-08", BaseMonthlyRate: decimal.NewFromInt(3000),
		Status: domain.UnitStatusActive, Availability: domain.UnitAvailabilityWithdrawn})

	session := func(token string, userID int32, role domain.Role, status domain.AccountStatus, expires time.Time) {
		store.PutSession(domain.SessionRow{Token: token, UserID: userID, Role: role, DisplayName: token,
			AccountStatus: status, ExpiresAt: expires})
	}
	session(customerToken, 3, domain.RoleIndividual, domain.AccountStatusActive, now.Add(time.Hour))
	session(otherToken, 4, domain.RoleCorporate, domain.AccountStatusActive, now.Add(time.Hour))
	session(adminToken, 1, domain.RoleAdmin, domain.AccountStatusActive, now.Add(time.Hour))
	session(expiredToken, 5, domain.RoleIndividual, domain.AccountStatusActive, now.Add(-time.Minute))
	session(inactiveToken, 6, domain.RoleIndividual, domain.AccountStatusInactive, now.Add(time.Hour))

	addons := []domain.Addon{{Key: "basic", Name: "Basic Insurance", Rate: decimal.NewFromInt(500)}}
	pricing := service.NewPricingService(store.UnitRepository, utils.DefaultPriceRates(), addons)
	h := NewHandler(Options{
		Sessions:     service.NewSessionService(store.SessionRepository, clock, nil),
		Pricing:      pricing,
		Availability: service.NewAvailabilityService(store.UnitRepository, store.ReservationRepository),
		Bookings:     service.NewBookingService(store, store.ReservationRepository, pricing, clock, nil),
		Metrics:      metrics.New(),
		Clock:        clock,
		LoginURL:     "/login",
	})
	return &testServer{router: NewRouter(h), store: store, clock: clock}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) createBooking(t *testing.T, token, start, end string) reservationResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/bookings", token, map[string]any{
		"unit_id": 7, "start_date": start, "end_date": end, "quantity": 2, "duration_months": 1,
		"customer": map[string]string{"name": "Ada", "email": "ada@example.com"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[reservationResponse](t, rec)
}

func TestRouter_PublicRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storage_rental_http_request_duration_seconds")
}

func TestRouter_Authentication(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		token  string
		status int
		code   string
	}{
		{name: "missing token", token: "", status: http.StatusUnauthorized, code: "unauthenticated"},
		{name: "unknown token", token: "nope", status: http.StatusUnauthorized, code: "unauthenticated"},
		{name: "expired", token: expiredToken, status: http.StatusUnauthorized, code: "session_expired"},
		{name: "inactive account", token: inactiveToken, status: http.StatusForbidden, code: "account_inactive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/v1/session", tt.token, nil)
			assert.Equal(t, tt.status, rec.Code)
			resp := decode[errorResponse](t, rec)
			assert.Equal(t, tt.code, resp.Code)
		})
	}

	t.Run("expired token is gone afterwards", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/session", expiredToken, nil)
		assert.Equal(t, "unauthenticated", decode[errorResponse](t, rec).Code)
	})

	t.Run("valid session", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/session", customerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		id := decode[identityResponse](t, rec)
		assert.Equal(t, int32(3), id.UserID)
		assert.False(t, id.Admin)
	})

	t.Run("admin route refuses customers", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/units/7/bookings", customerToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "forbidden", decode[errorResponse](t, rec).Code)

		rec = s.do(t, http.MethodGet, "/api/v1/units/7/bookings", adminToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("logout", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, "/api/v1/session", otherToken, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = s.do(t, http.MethodGet, "/api/v1/session", otherToken, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRouter_QuoteAndAvailability(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/units/7/quote?quantity=2&duration_months=1", customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	q := decode[quoteResponse](t, rec)
	assert.Equal(t, "500.00", q.ServiceFee)
	assert.Equal(t, "750.00", q.Tax)
	assert.Equal(t, "11250.00", q.GrandTotal)

	rec = s.do(t, http.MethodGet, "/api/v1/units/7/quote?quantity=0", customerToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_quote", decode[errorResponse](t, rec).Code)

	rec = s.do(t, http.MethodGet, "/api/v1/units/99/quote", customerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	s.createBooking(t, customerToken, "2025-01-01", "2025-01-10")

	rec = s.do(t, http.MethodGet, "/api/v1/units/7/availability?start_date=2025-01-10&end_date=2025-01-15", customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[availabilityResponse](t, rec).Free)

	rec = s.do(t, http.MethodGet, "/api/v1/units/7/availability?start_date=2025-01-09&end_date=2025-01-12", customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[availabilityResponse](t, rec).Free)

	rec = s.do(t, http.MethodGet, "/api/v1/units/7/availability?date=2025-01-05", customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[availabilityResponse](t, rec).Free)

	rec = s.do(t, http.MethodGet, "/api/v1/units/7/availability?start_date=bad&end_date=2025-01-12", customerToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", decode[errorResponse](t, rec).Code)

	rec = s.do(t, http.MethodPost, "/api/v1/units/free", customerToken, map[string]any{"unit_ids": []int32{7, 8, 99}, "date": "2025-01-20"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int32{7}, decode[listFreeResponse](t, rec).UnitIDs)

	rec = s.do(t, http.MethodGet, "/api/v1/warehouses/1/free-units?date=2025-01-05", customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Units []unitResponse `json:"units"`
	}](t, rec)
	assert.Empty(t, body.Units)
}

func TestRouter_BookingFlow(t *testing.T) {
	s := newTestServer(t)

	created := s.createBooking(t, customerToken, "2025-01-01", "2025-02-01")
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "11250.00", created.QuotedTotal)
	require.NotNil(t, created.Details)
	assert.Equal(t, 2, created.Details.Quantity)
	assert.True(t, created.Details.Parsed)

	path := fmt.Sprintf("/api/v1/bookings/%d", created.ID)

	t.Run("overlapping create conflicts", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/bookings", otherToken, map[string]any{
			"unit_id": 7, "start_date": "2025-01-15", "end_date": "2025-01-20",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		resp := decode[errorResponse](t, rec)
		assert.Equal(t, "unit_unavailable", resp.Code)
		require.NotNil(t, resp.Conflict)
		assert.Equal(t, created.ID, resp.Conflict.ReservationID)
	})

	t.Run("other customers cannot see it", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, path, otherToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = s.do(t, http.MethodGet, path, adminToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("customer info then finalize", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, path+"/customer", customerToken, map[string]string{"name": "Ada L", "email": "ada@example.com", "phone": "555"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Ada L", decode[reservationResponse](t, rec).CustomerName)

		rec = s.do(t, http.MethodPost, path+"/finalize", customerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "confirmed", decode[reservationResponse](t, rec).Status)
	})

	t.Run("complete requires admin and payment", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, path+"/complete", customerToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		s.clock.now = time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)
		// Keep sessions alive past the clock jump.
		s.store.PutSession(domain.SessionRow{Token: adminToken, UserID: 1, Role: domain.RoleAdmin,
			AccountStatus: domain.AccountStatusActive, ExpiresAt: s.clock.now.Add(time.Hour)})

		rec = s.do(t, http.MethodPost, path+"/complete", adminToken, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		resp := decode[errorResponse](t, rec)
		assert.Equal(t, "invalid_transition", resp.Code)
		assert.Equal(t, "confirmed", resp.From)

		rec = s.do(t, http.MethodPut, path+"/payment", adminToken, map[string]string{"payment_status": "paid"})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = s.do(t, http.MethodPost, path+"/complete", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "completed", decode[reservationResponse](t, rec).Status)
	})

	t.Run("invalid payment status", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, path+"/payment", adminToken, map[string]string{"payment_status": "maybe"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_CreateBookingCounts(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "zero quantity", body: map[string]any{"quantity": 0, "duration_months": 1}},
		{name: "zero duration", body: map[string]any{"quantity": 1, "duration_months": 0}},
		{name: "both zero", body: map[string]any{"quantity": 0, "duration_months": 0}},
		{name: "negative quantity", body: map[string]any{"quantity": -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.body["unit_id"] = 7
			tt.body["start_date"] = "2025-01-01"
			tt.body["end_date"] = "2025-02-01"
			rec := s.do(t, http.MethodPost, "/api/v1/bookings", customerToken, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, "invalid_quote", decode[errorResponse](t, rec).Code)
		})
	}

	t.Run("absent counts default to one", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/bookings", customerToken, map[string]any{
			"unit_id": 7, "start_date": "2025-01-01", "end_date": "2025-02-01",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		created := decode[reservationResponse](t, rec)
		require.NotNil(t, created.Details)
		assert.Equal(t, 1, created.Details.Quantity)
		assert.Equal(t, 1, created.Details.DurationMonths)
		assert.Equal(t, "5625.00", created.QuotedTotal)
	})
}

func TestRouter_CancelTwice(t *testing.T) {
	s := newTestServer(t)
	created := s.createBooking(t, customerToken, "2025-01-01", "2025-02-01")
	path := fmt.Sprintf("/api/v1/bookings/%d/cancel", created.ID)

	rec := s.do(t, http.MethodPost, path, customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cancelled", decode[reservationResponse](t, rec).Status)

	rec = s.do(t, http.MethodPost, path, customerToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "invalid_transition", decode[errorResponse](t, rec).Code)
}

func TestRouter_UnavailableStore(t *testing.T) {
	h := NewHandler(Options{
		Sessions: failingSessions{},
		HealthCheck: func(context.Context) error {
			return fmt.Errorf("ping: %w", domain.ErrUnavailable)
		},
	})
	router := NewRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.Header.Set("Authorization", "Bearer x")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", decode[errorResponse](t, rec).Code)
}

type failingSessions struct{}

func (failingSessions) Validate(context.Context, string) (*domain.Identity, error) {
	return nil, fmt.Errorf("get session: %w: connection refused", domain.ErrUnavailable)
}

func (failingSessions) Logout(context.Context, string) error { return nil }
