package ports

import (
	"context"
	"time"

	"github.com/techzone/storefront-api/internal/core/domain"
)

// RegisterInput carries the profile of a new account.
type RegisterInput struct {
	Username    string
	Email       string
	Phone       string
	DateOfBirth time.Time
	Password    string
	Department  string
	Avatar      *domain.Avatar
}

// LoginInput is what a caller presents to obtain a channel token.
type LoginInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Role            domain.Role
}

// Session is an issued bearer token for one principal.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService covers registration, login and staff provisioning.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*Session, error)
	Login(ctx context.Context, in LoginInput) (*Session, error)
	Provision(ctx context.Context, role domain.Role, in RegisterInput) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
	Delete(ctx context.Context, id string, role domain.Role) error
}

// TokenVerifier resolves a bearer token to the principal id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}
