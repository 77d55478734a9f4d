package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/utils"
)

const maxBodyBytes = 1 << 20

func pathID(r *http.Request) (int32, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", domain.ErrInvalidInput, mux.Vars(r)["id"])
	}
	return int32(id), nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	t, err := utils.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return t, nil
}

// queryDate reads a yyyy-mm-dd query parameter, falling back to today.
func (h *Handler) queryDate(r *http.Request, name string) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return utils.TruncateDay(h.clock.Now()), nil
	}
	return parseDate(value)
}

// queryInt reads a positive integer query parameter with a default.
func queryInt(r *http.Request, name string, def int) (int, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidQuote, name)
	}
	return n, nil
}

// intOrDefault applies def only when the field was absent from the body.
func intOrDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
