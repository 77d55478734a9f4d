package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/logger"
	"storage-rental-backend/internal/utils"
)

type errorResponse struct {
	Code     string          `json:"code"`
	Message  string          `json:"message"`
	LoginURL string          `json:"login_url,omitempty"`
	Conflict *conflictDetail `json:"conflict,omitempty"`
	From     string          `json:"from,omitempty"`
	To       string          `json:"to,omitempty"`
}

type conflictDetail struct {
	UnitID        int32  `json:"unit_id"`
	ReservationID int32  `json:"reservation_id,omitempty"`
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

// writeError maps a service error onto a status code and a stable error code.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status = http.StatusServiceUnavailable
		resp   = errorResponse{Code: "unavailable", Message: "service temporarily unavailable"}
		ue     *domain.UnavailableError
		te     *domain.TransitionError
	)

	switch {
	case errors.As(err, &ue):
		status = http.StatusConflict
		resp = errorResponse{Code: "unit_unavailable", Message: ue.Error(), Conflict: &conflictDetail{UnitID: ue.UnitID, ReservationID: ue.ConflictID}}
		if !ue.Start.IsZero() {
			resp.Conflict.StartDate = ue.Start.Format(utils.DateLayout)
			resp.Conflict.EndDate = ue.End.Format(utils.DateLayout)
		}
	case errors.Is(err, domain.ErrUnitUnavailable):
		status = http.StatusConflict
		resp = errorResponse{Code: "unit_unavailable", Message: err.Error()}
	case errors.As(err, &te):
		status = http.StatusConflict
		resp = errorResponse{Code: "invalid_transition", Message: te.Error(), From: string(te.From), To: string(te.To)}
	case errors.Is(err, domain.ErrInvalidTransition):
		status = http.StatusConflict
		resp = errorResponse{Code: "invalid_transition", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidQuote):
		status = http.StatusBadRequest
		resp = errorResponse{Code: "invalid_quote", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
		resp = errorResponse{Code: "invalid_input", Message: err.Error()}
	case errors.Is(err, domain.ErrSessionExpired):
		status = http.StatusUnauthorized
		resp = errorResponse{Code: "session_expired", Message: "session expired", LoginURL: h.loginURL}
	case errors.Is(err, domain.ErrAccountInactive):
		status = http.StatusForbidden
		resp = errorResponse{Code: "account_inactive", Message: "account is not active"}
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
		resp = errorResponse{Code: "forbidden", Message: "not permitted"}
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		resp = errorResponse{Code: "not_found", Message: "not found"}
	}

	if status == http.StatusServiceUnavailable {
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, resp)
}

func (h *Handler) writeUnauthenticated(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{Code: "unauthenticated", Message: message, LoginURL: h.loginURL})
}
