package http

import (
	"context"
	"net/http"

	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/logger"
	"storage-rental-backend/internal/service"
)

type customerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (c customerRequest) info() domain.CustomerInfo {
	return domain.CustomerInfo{Name: c.Name, Email: c.Email, Phone: c.Phone}
}

type createBookingRequest struct {
	UnitID         int32           `json:"unit_id"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	Quantity       *int            `json:"quantity"`
	DurationMonths *int            `json:"duration_months"`
	Addon          string          `json:"addon"`
	Customer       customerRequest `json:"customer"`
}

type paymentRequest struct {
	PaymentStatus string `json:"payment_status"`
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var req createBookingRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.bookings.Create(r.Context(), service.CreateBookingInput{
		UnitID:         req.UnitID,
		UserID:         identity.UserID,
		StartDate:      start,
		EndDate:        end,
		Quantity:       intOrDefault(req.Quantity, 1),
		DurationMonths: intOrDefault(req.DurationMonths, 1),
		AddonKey:       req.Addon,
		Customer:       req.Customer.info(),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	notes := h.bookings.DecodeNotes(res)
	writeJSON(w, http.StatusCreated, mapReservation(res, &notes))
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	res, ok := h.ownedBooking(w, r)
	if !ok {
		return
	}
	notes := h.bookings.DecodeNotes(res)
	writeJSON(w, http.StatusOK, mapReservation(res, &notes))
}

func (h *Handler) ConfirmCustomerInfo(w http.ResponseWriter, r *http.Request) {
	res, ok := h.ownedBooking(w, r)
	if !ok {
		return
	}
	var req customerRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, func(ctx context.Context) (*domain.Reservation, error) {
		return h.bookings.ConfirmCustomerInfo(ctx, res.ID, req.info())
	})
}

func (h *Handler) FinalizeBooking(w http.ResponseWriter, r *http.Request) {
	res, ok := h.ownedBooking(w, r)
	if !ok {
		return
	}
	h.respond(w, r, func(ctx context.Context) (*domain.Reservation, error) {
		return h.bookings.Finalize(ctx, res.ID)
	})
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	res, ok := h.ownedBooking(w, r)
	if !ok {
		return
	}
	h.respond(w, r, func(ctx context.Context) (*domain.Reservation, error) {
		return h.bookings.Cancel(ctx, res.ID)
	})
}

func (h *Handler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, func(ctx context.Context) (*domain.Reservation, error) {
		return h.bookings.Complete(ctx, id)
	})
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req paymentRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, func(ctx context.Context) (*domain.Reservation, error) {
		return h.bookings.RecordPayment(ctx, id, domain.PaymentStatus(req.PaymentStatus))
	})
}

// ownedBooking loads the booking in the path and checks the caller owns it or is an admin.
func (h *Handler) ownedBooking(w http.ResponseWriter, r *http.Request) (*domain.Reservation, bool) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	res, err := h.bookings.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	identity, ok := IdentityFromContext(r.Context())
	if !ok || (res.UserID != identity.UserID && !identity.IsAdmin()) {
		logger.WarnContext(r.Context(), "Booking access denied", "reservationID", res.ID, "ownerID", res.UserID)
		h.writeError(w, r, domain.ErrForbidden)
		return nil, false
	}
	return res, true
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, op func(ctx context.Context) (*domain.Reservation, error)) {
	res, err := op(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapReservation(res, nil))
}
