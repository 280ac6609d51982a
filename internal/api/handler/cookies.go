package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/techzone/storefront-api/internal/api/middleware"
	"github.com/techzone/storefront-api/internal/core/domain"
)

// CookieConfig holds the attributes shared by both token cookies.
type CookieConfig struct {
	Secure bool
	Domain string
}

// channelFor names the cookie a principal of role authenticates with.
func channelFor(role domain.Role) string {
	if role == domain.RoleUser {
		return middleware.UserCookie
	}
	return middleware.AdminCookie
}

func (cc CookieConfig) set(c echo.Context, name, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Domain:   cc.Domain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (cc CookieConfig) clear(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   cc.Domain,
		Expires:  time.Now(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
