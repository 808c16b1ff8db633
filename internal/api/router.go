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

	_ "github.com/quillpad/blog-api/docs"
	"github.com/quillpad/blog-api/internal/api/handler"
	"github.com/quillpad/blog-api/internal/api/metrics"
	"github.com/quillpad/blog-api/internal/api/middleware"
	"github.com/quillpad/blog-api/internal/core/ports"
)

// DefaultBasePath is where the JSON API is mounted when Deps.BasePath is empty.
const DefaultBasePath = "/api"

// Deps is everything NewRouter wires together.
type Deps struct {
	Logger   zerolog.Logger
	Tokens   ports.TokenService
	Auth     ports.AuthService
	Posts    ports.PostService
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	// Readiness lists the dependencies probed by GET /health/ready.
	Readiness map[string]handler.Pinger
	BasePath  string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "blog",
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – is the store reachable?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Metrics)
	userHandler := handler.NewUserHandler(d.Auth)
	postHandler := handler.NewPostHandler(d.Posts, d.Metrics)
	authMiddleware := middleware.Auth(d.Tokens, d.Metrics)

	g := e.Group(basePath(d.BasePath))

	g.POST("/register", authHandler.Register)
	g.POST("/login", authHandler.Login)
	g.GET("/me", userHandler.Me, authMiddleware)

	g.GET("/posts", postHandler.List, authMiddleware)
	g.POST("/posts", postHandler.Create, authMiddleware)
	g.GET("/posts/:id", postHandler.Get, authMiddleware)
	g.PUT("/posts/:id", postHandler.Update, authMiddleware)
	g.DELETE("/posts/:id", postHandler.Delete, authMiddleware)

	return e
}

// basePath maps "" to DefaultBasePath and "/" to the root.
func basePath(p string) string {
	if p == "" {
		return DefaultBasePath
	}
	return strings.TrimRight(p, "/")
}
