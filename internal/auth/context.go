package auth

import (
	"context"

	"storefront/internal/domain"
)

type principalKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored in ctx, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// IsSelfOrAdmin reports whether p may act on the customer record id.
func (p Principal) IsSelfOrAdmin(id string) bool {
	return p.CustomerID == id || p.Role == domain.RoleAdmin
}
