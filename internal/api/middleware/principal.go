package middleware

import (
	"context"

	"github.com/techzone/storefront-api/internal/core/domain"
)

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying the authenticated user.
func WithPrincipal(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, principalKey{}, user)
}

// PrincipalFrom returns the user attached by a guard, if any.
func PrincipalFrom(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(principalKey{}).(*domain.User)
	return u, ok && u != nil
}
