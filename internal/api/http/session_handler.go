package http

import (
	"net/http"

	"storage-rental-backend/internal/logger"
)

// GetSession echoes the identity resolved by the session middleware.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.writeUnauthenticated(w, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, mapIdentity(identity))
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context(), tokenFromContext(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	if identity, ok := IdentityFromContext(r.Context()); ok {
		logger.InfoContext(r.Context(), "Session logged out", "userID", identity.UserID)
	}
	w.WriteHeader(http.StatusNoContent)
}
