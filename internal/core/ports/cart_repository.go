package ports

import (
	"context"

	"github.com/techzone/storefront-api/internal/core/domain"
)

// CartRepository persists carts keyed by principal.
type CartRepository interface {
	// FindByUserID returns domain.ErrCartNotFound when the principal has no cart.
	FindByUserID(ctx context.Context, userID string) (*domain.Cart, error)

	// Save writes cart if and only if the stored version still equals
	// cart.Version (zero meaning "must not exist yet"). On success the
	// version is advanced in place. A stale write returns domain.ErrCartConflict.
	Save(ctx context.Context, cart *domain.Cart) error
}

// ProductCatalog is the read-only source of product existence and price.
type ProductCatalog interface {
	// FindByID returns domain.ErrProductNotFound for unknown or malformed ids.
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// FindByIDs returns the products that exist, keyed by id. Missing ids are
	// simply absent from the map.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error)
}

// IdempotencyStore remembers request keys for a bounded time.
type IdempotencyStore interface {
	// Claim records key under scope and reports whether this call was first.
	Claim(ctx context.Context, scope, key string) (bool, error)
	// Release forgets a claimed key so the request can be retried.
	Release(ctx context.Context, scope, key string) error
}

// CartLocker runs fn with exclusive access to the cart identified by key.
type CartLocker interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
