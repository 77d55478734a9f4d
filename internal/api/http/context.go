package http

import (
	"context"

	"storage-rental-backend/internal/domain"
)

type contextKey int

const (
	identityKey contextKey = iota
	tokenKey
)

func withIdentity(ctx context.Context, id *domain.Identity, token string) context.Context {
	ctx = context.WithValue(ctx, identityKey, id)
	return context.WithValue(ctx, tokenKey, token)
}

// IdentityFromContext returns the identity stored by the session middleware.
func IdentityFromContext(ctx context.Context) (*domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*domain.Identity)
	return id, ok && id != nil
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
