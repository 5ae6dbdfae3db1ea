package auth

import (
	"context"
)

var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// WithIdentity attaches verified claims to ctx. Downstream handlers must
// treat them as read-only.
func WithIdentity(ctx context.Context, claims *TokenClaims) context.Context {
	return context.WithValue(ctx, identityCtxKey, claims)
}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (*TokenClaims, bool) {
	if ctx == nil {
		return nil, false
	}
	raw, ok := ctx.Value(identityCtxKey).(*TokenClaims)
	if !ok || raw == nil {
		return nil, false
	}
	return raw, true
}
