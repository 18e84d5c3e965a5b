package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/userhub/user-api/docs"
	"github.com/userhub/user-api/internal/api/handler"
	"github.com/userhub/user-api/internal/api/middleware"
	"github.com/userhub/user-api/internal/core/domain"
	"github.com/userhub/user-api/internal/core/ports"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Auth      ports.AuthService
	Authority ports.TokenAuthority
	Users     ports.UserService
	Roles     ports.RoleService
	Health    map[string]handler.Pinger

	LoginRatePerSec float64
	Log             zerolog.Logger

	// Registry receives the HTTP metrics and backs /metrics. The default
	// Prometheus registry is used when nil.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Authority)
	userHandler := handler.NewUserHandler(deps.Users, deps.Authority)
	roleHandler := handler.NewRoleHandler(deps.Roles)
	healthHandler := handler.NewHealthHandler(deps.Health)

	requireAuth := middleware.Auth(deps.Authority)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login, middleware.LoginRateLimit(deps.LoginRatePerSec))
	e.GET("/auth/validate", authHandler.Validate)

	// --- Users ---
	e.POST("/users", userHandler.Create)
	users := e.Group("/users", requireAuth)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.GET("/name/:name", userHandler.ListByName)
	users.GET("/email/:email", userHandler.GetByEmail)
	users.GET("/username/:username", userHandler.GetByUsername)
	users.GET("/role/:roleName", userHandler.ListByRole)
	users.PATCH("/self/:id", userHandler.UpdateSelf)
	users.PATCH("/:id", userHandler.UpdateByAdmin, adminOnly)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	// --- Roles ---
	roles := e.Group("/roles", requireAuth)
	roles.GET("", roleHandler.List)
	roles.GET("/id/:id", roleHandler.GetByID)
	roles.GET("/name/:name", roleHandler.GetByName)
	roles.POST("", roleHandler.Create, adminOnly)
	roles.PATCH("/:id", roleHandler.Update, adminOnly)
	roles.DELETE("/:id", roleHandler.Delete, adminOnly)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
