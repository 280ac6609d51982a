package domain

import "errors"

// Authentication. Every guard failure collapses into ErrUnauthenticated so
// callers cannot tell a missing token from an expired one or a wrong role.
var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRoleMismatch       = errors.New("user not found with this role")
)

// Input.
var ErrInvalidArgument = errors.New("invalid argument")

// Lookups.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("product not in cart")
	ErrProductNotFound  = errors.New("product not found")
)

// Conflicts.
var (
	ErrUserExists   = errors.New("user already registered")
	ErrCartConflict = errors.New("cart was modified concurrently")
)

// ErrDependency marks a collaborator (datastore, catalog, cache) that could
// not be reached or answered with something unexpected.
var ErrDependency = errors.New("dependency unavailable")
