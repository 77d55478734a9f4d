package security

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

var ErrMissingToken = errors.New("missing session token")

// SessionCookieName is read when no Authorization header is present.
const SessionCookieName = "session_token"

// NewSessionToken returns a fresh opaque session token.
func NewSessionToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ExtractToken reads the session token from a "Bearer" Authorization header,
// falling back to the session cookie.
func ExtractToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return "", ErrMissingToken
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return "", ErrMissingToken
		}
		return token, nil
	}

	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", ErrMissingToken
}
