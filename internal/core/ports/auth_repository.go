package ports

import (
	"context"

	"github.com/techzone/storefront-api/internal/core/domain"
)

// UserRepository is the credential store. Email is unique across every role.
type UserRepository interface {
	// Create persists a new principal and returns it with its ID set.
	// Returns domain.ErrUserExists when the email is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
	// DeleteByIDAndRole removes the principal only if it currently holds role.
	// Returns domain.ErrInvalidArgument for a malformed id.
	DeleteByIDAndRole(ctx context.Context, id string, role domain.Role) error
}
