package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"storage-rental-backend/internal/config"
	"storage-rental-backend/internal/metrics"
	"storage-rental-backend/internal/service"
)

// Handler serves the booking API.
type Handler struct {
	sessions     service.SessionService
	pricing      service.PricingService
	availability service.AvailabilityService
	bookings     service.BookingService
	metrics      *metrics.Metrics
	clock        service.Clock
	loginURL     string
	healthCheck  func(ctx context.Context) error
}

type Options struct {
	Sessions     service.SessionService
	Pricing      service.PricingService
	Availability service.AvailabilityService
	Bookings     service.BookingService
	Metrics      *metrics.Metrics
	Clock        service.Clock
	LoginURL     string
	// HealthCheck is optional; nil reports healthy.
	HealthCheck func(ctx context.Context) error
}

func NewHandler(opts Options) *Handler {
	clock := opts.Clock
	if clock == nil {
		clock = service.SystemClock{}
	}
	return &Handler{
		sessions:     opts.Sessions,
		pricing:      opts.Pricing,
		availability: opts.Availability,
		bookings:     opts.Bookings,
		metrics:      opts.Metrics,
		clock:        clock,
		loginURL:     opts.LoginURL,
		healthCheck:  opts.HealthCheck,
	}
}

// NewRouter registers every route under its security table name.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(h.instrument, h.authenticate)

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet).Name(config.RouteHealth)
	r.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet).Name(config.RouteMetrics)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/session", h.GetSession).Methods(http.MethodGet).Name(config.RouteSessionGet)
	api.HandleFunc("/session", h.DeleteSession).Methods(http.MethodDelete).Name(config.RouteSessionDelete)

	api.HandleFunc("/units/free", h.ListFreeUnits).Methods(http.MethodPost).Name(config.RouteUnitsFree)
	api.HandleFunc("/units/{id:[0-9]+}/quote", h.Quote).Methods(http.MethodGet).Name(config.RouteUnitQuote)
	api.HandleFunc("/units/{id:[0-9]+}/availability", h.CheckAvailability).Methods(http.MethodGet).Name(config.RouteUnitAvailability)
	api.HandleFunc("/units/{id:[0-9]+}/bookings", h.ListUnitBookings).Methods(http.MethodGet).Name(config.RouteUnitBookings)
	api.HandleFunc("/warehouses/{id:[0-9]+}/free-units", h.ListWarehouseFreeUnits).Methods(http.MethodGet).Name(config.RouteWarehouseFreeUnits)

	api.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost).Name(config.RouteBookingCreate)
	api.HandleFunc("/bookings/{id:[0-9]+}", h.GetBooking).Methods(http.MethodGet).Name(config.RouteBookingGet)
	api.HandleFunc("/bookings/{id:[0-9]+}/customer", h.ConfirmCustomerInfo).Methods(http.MethodPut).Name(config.RouteBookingCustomer)
	api.HandleFunc("/bookings/{id:[0-9]+}/finalize", h.FinalizeBooking).Methods(http.MethodPost).Name(config.RouteBookingFinalize)
	api.HandleFunc("/bookings/{id:[0-9]+}/cancel", h.CancelBooking).Methods(http.MethodPost).Name(config.RouteBookingCancel)
	api.HandleFunc("/bookings/{id:[0-9]+}/complete", h.CompleteBooking).Methods(http.MethodPost).Name(config.RouteBookingComplete)
	api.HandleFunc("/bookings/{id:[0-9]+}/payment", h.RecordPayment).Methods(http.MethodPut).Name(config.RouteBookingPayment)

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.healthCheck != nil {
		if err := h.healthCheck(r.Context()); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
