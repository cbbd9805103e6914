package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/uhndata/delirium-scorecard/docs"
	"github.com/uhndata/delirium-scorecard/internal/api/handler"
	"github.com/uhndata/delirium-scorecard/internal/api/middleware"
	"github.com/uhndata/delirium-scorecard/internal/core/domain"
	"github.com/uhndata/delirium-scorecard/internal/core/ports"
)

// Deps bundles everything the router needs wired in.
type Deps struct {
	AuthService      ports.AuthService
	UserService      ports.UserService
	ScorecardService ports.ScorecardService
	Pool             *pgxpool.Pool
	Redis            *redis.Client
	CORSOrigin       string
	Logger           zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{deps.CORSOrigin},
		AllowCredentials: true,
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
	}))
	e.Use(echoprometheus.NewMiddleware("scorecard"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.UserService)
	userHandler := handler.NewUserHandler(deps.UserService)
	scorecardHandler := handler.NewScorecardHandler(deps.ScorecardService)

	authRequired := middleware.Auth(deps.AuthService)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/signin", authHandler.SignIn)
	e.POST("/auth/signout", authHandler.SignOut, authRequired)
	e.GET("/auth/session", authHandler.Session, authRequired)
	e.POST("/auth/signup", authHandler.SignUp, authRequired, adminOnly)
	e.POST("/auth/update-password", authHandler.UpdatePassword, authRequired)

	// --- User management (admin only) ---
	e.GET("/users", userHandler.List, authRequired, adminOnly)
	e.PUT("/users/:id", userHandler.Update, authRequired, adminOnly)
	e.DELETE("/users/:id", userHandler.Delete, authRequired, adminOnly)

	// --- Scorecard datasets (read-only, dashboard-facing) ---
	e.GET("/rates", scorecardHandler.Rates)
	e.GET("/time-trends", scorecardHandler.TimeTrends)
	e.GET("/demographics", scorecardHandler.Demographics)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Pool, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
