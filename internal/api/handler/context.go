package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/techzone/storefront-api/internal/api/middleware"
	"github.com/techzone/storefront-api/internal/core/domain"
)

// principal returns the user attached by the route's guard. A route wired
// without a guard fails closed.
func principal(c echo.Context) (*domain.User, error) {
	u, ok := middleware.PrincipalFrom(c.Request().Context())
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}
