package http

import (
	"fmt"
	"net/http"

	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/utils"
)

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	unitID, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	quantity, err := queryInt(r, "quantity", 1)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	duration, err := queryInt(r, "duration_months", 1)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	breakdown, err := h.pricing.Quote(r.Context(), unitID, quantity, duration, r.URL.Query().Get("addon"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapQuote(breakdown))
}

type availabilityResponse struct {
	UnitID    int32  `json:"unit_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Free      bool   `json:"free"`
}

// CheckAvailability accepts either start_date and end_date, or a single date.
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	unitID, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	var resp availabilityResponse
	resp.UnitID = unitID

	if q.Get("start_date") != "" || q.Get("end_date") != "" {
		start, err := parseDate(q.Get("start_date"))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		end, err := parseDate(q.Get("end_date"))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		resp.Free, err = h.availability.IsFree(r.Context(), unitID, start, end)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		resp.StartDate, resp.EndDate = start.Format(utils.DateLayout), end.Format(utils.DateLayout)
	} else {
		day, err := h.queryDate(r, "date")
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		resp.Free, err = h.availability.IsFreeOn(r.Context(), unitID, day)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		start, end := utils.DayRange(day)
		resp.StartDate, resp.EndDate = start.Format(utils.DateLayout), end.Format(utils.DateLayout)
	}

	writeJSON(w, http.StatusOK, resp)
}

type listFreeRequest struct {
	UnitIDs []int32 `json:"unit_ids"`
	Date    string  `json:"date"`
}

type listFreeResponse struct {
	Date    string  `json:"date"`
	UnitIDs []int32 `json:"unit_ids"`
}

func (h *Handler) ListFreeUnits(w http.ResponseWriter, r *http.Request) {
	var req listFreeRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(req.UnitIDs) == 0 {
		h.writeError(w, r, fmt.Errorf("%w: unit_ids is required", domain.ErrInvalidInput))
		return
	}

	day := utils.TruncateDay(h.clock.Now())
	if req.Date != "" {
		var err error
		if day, err = parseDate(req.Date); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	free, err := h.availability.ListFree(r.Context(), req.UnitIDs, day)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listFreeResponse{Date: day.Format(utils.DateLayout), UnitIDs: free})
}

func (h *Handler) ListWarehouseFreeUnits(w http.ResponseWriter, r *http.Request) {
	warehouseID, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	day, err := h.queryDate(r, "date")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	units, err := h.availability.ListFreeInWarehouse(r.Context(), warehouseID, day)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]unitResponse, 0, len(units))
	for i := range units {
		out = append(out, mapUnit(&units[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": day.Format(utils.DateLayout), "units": out})
}

// ListUnitBookings backs the admin bookings dashboard.
func (h *Handler) ListUnitBookings(w http.ResponseWriter, r *http.Request) {
	unitID, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.bookings.ListForUnit(r.Context(), unitID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"unit_id": unitID, "bookings": mapReservations(list)})
}
