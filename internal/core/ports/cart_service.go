package ports

import (
	"context"

	"github.com/techzone/storefront-api/internal/core/domain"
)

// AddItemInput is a request to put quantity units of a product in a cart.
type AddItemInput struct {
	ProductID string
	Quantity  int
	// IdempotencyKey is optional. A repeated key for the same principal
	// returns the current cart without applying the add again.
	IdempotencyKey string
}

// CartService is the cart aggregator. Every method is scoped to userID.
type CartService interface {
	AddItem(ctx context.Context, userID string, in AddItemInput) (*domain.Cart, error)
	GetCart(ctx context.Context, userID string) (*domain.CartView, error)
	UpdateItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error)
}
