package middleware

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/techzone/storefront-api/internal/core/domain"
	"github.com/techzone/storefront-api/internal/core/ports"
	"github.com/techzone/storefront-api/internal/pkg/metrics"
	"github.com/techzone/storefront-api/pkg/logger"
)

// Credential channels. Staff (Admin, Manager) sign in on the admin channel,
// shoppers on the user channel.
const (
	AdminCookie = "adminToken"
	UserCookie  = "userToken"
)

// UserFinder loads the live record of a principal.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Guard authenticates requests carrying a token in the cookie named channel
// and admits only principals whose current stored role is in roles. The role
// is re-read on every request, so demotions and deletions apply immediately.
//
// Every rejection returns domain.ErrUnauthenticated; the internal reason is
// only logged and counted. A store failure surfaces as a dependency error.
func Guard(tokens ports.TokenVerifier, users UserFinder, channel string, roles ...domain.Role) echo.MiddlewareFunc {
	accepted := newRoleSet(roles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			reject := func(reason string) error {
				metrics.AuthRejectionsTotal.WithLabelValues(channel, reason).Inc()
				logger.Ctx(ctx).Debug().
					Str("channel", channel).
					Str("reason", reason).
					Str("path", c.Path()).
					Msg("request rejected by guard")
				return domain.ErrUnauthenticated
			}

			cookie, err := c.Cookie(channel)
			if err != nil || cookie.Value == "" {
				return reject("missing")
			}

			id, err := tokens.Verify(cookie.Value)
			if err != nil {
				return reject("invalid")
			}

			user, err := users.FindByID(ctx, id)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return reject("unknown_principal")
				}
				return err
			}

			if !accepted.allows(user.Role) {
				return reject("role")
			}

			c.SetRequest(c.Request().WithContext(WithPrincipal(ctx, user)))
			return next(c)
		}
	}
}
