package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.BookingOperation("create", "ok")
	m.BookingOperation("create", "ok")
	m.BookingOperation("create", "unit_unavailable")
	m.SessionValidation("expired")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingOperations.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingOperations.WithLabelValues("create", "unit_unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionValidations.WithLabelValues("expired")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveRequest("bookings.create", "201", 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `storage_rental_http_request_duration_seconds_count{code="201",route="bookings.create"} 1`))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.BookingOperation("create", "ok")
		m.SessionValidation("ok")
		m.ObserveRequest("x", "200", time.Second)
	})
}

func TestMetrics_Registry(t *testing.T) {
	m := New()
	m.BookingOperation("finalize", "ok")
	m.BookingOperation("cancel", "invalid_transition")

	n, err := testutil.GatherAndCount(m.Registry(), "storage_rental_booking_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var nilMetrics *Metrics
	assert.Nil(t, nilMetrics.Registry())
}
