package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/techzone/storefront-api/docs"
	"github.com/techzone/storefront-api/internal/api/handler"
	"github.com/techzone/storefront-api/internal/api/middleware"
	"github.com/techzone/storefront-api/internal/core/domain"
	"github.com/techzone/storefront-api/internal/core/ports"
	"github.com/techzone/storefront-api/internal/infrastructure/http/handlers"
)

// Dependencies is everything the HTTP layer needs from the composition root.
type Dependencies struct {
	Log     zerolog.Logger
	Auth    ports.AuthService
	Cart    ports.CartService
	Tokens  ports.TokenVerifier
	Users   middleware.UserFinder
	Cookies handler.CookieConfig

	// AllowOrigins are the browser origins allowed to send cookies.
	AllowOrigins []string
	// Health lists the readiness checks by dependency name.
	Health map[string]handlers.Check
	// Registerer receives the HTTP metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	registerer := d.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.ContextLogger(d.Log))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, handler.IdempotencyKeyHeader},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
		},
	}))

	// --- Guards ---
	adminGuard := middleware.Guard(d.Tokens, d.Users, middleware.AdminCookie, domain.RoleAdmin)
	staffGuard := middleware.Guard(d.Tokens, d.Users, middleware.AdminCookie, domain.RoleAdmin, domain.RoleManager)
	userGuard := middleware.Guard(d.Tokens, d.Users, middleware.UserCookie, domain.RoleUser)

	// --- Accounts ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Cookies)
	users := e.Group("/api/user")

	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)

	users.POST("/admin/addnew", authHandler.AddAdmin, adminGuard)
	users.GET("/admin/me", authHandler.Me, staffGuard)
	users.GET("/admin/logout", authHandler.LogoutAdmin, staffGuard)
	users.GET("/admin/getall", authHandler.ListAdmins, adminGuard)

	users.GET("/user/me", authHandler.Me, userGuard)
	users.GET("/user/logout", authHandler.LogoutUser, userGuard)
	users.GET("/user/info", authHandler.ListUsers, adminGuard)
	users.DELETE("/user/delete/:id", authHandler.DeleteUser, adminGuard)

	users.GET("/managers", authHandler.ListManagers)
	users.POST("/manager/addnew", authHandler.AddManager, adminGuard)
	users.DELETE("/manager/delete/:id", authHandler.DeleteManager, adminGuard)

	// --- Cart (shoppers only) ---
	cartHandler := handler.NewCartHandler(d.Cart)
	cart := e.Group("/api/cart", userGuard)

	cart.POST("/add", cartHandler.Add)
	cart.GET("", cartHandler.Get)
	cart.PUT("/update", cartHandler.Update)
	cart.DELETE("/remove/:productId", cartHandler.Remove)

	// --- Operations (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Health)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
