package api

import (
	"strconv"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/alayatales/temple-api/docs"
	"github.com/alayatales/temple-api/internal/api/handler"
	"github.com/alayatales/temple-api/internal/api/middleware"
	"github.com/alayatales/temple-api/internal/core/ports"
	"github.com/alayatales/temple-api/internal/infrastructure/http/handlers"
)

// Uploads selects how /uploads is served: from a local directory when Dir is
// set, otherwise streamed from Source.
type Uploads struct {
	Dir    string
	Source ports.ImageSource
}

// Deps is everything the router needs to build handlers.
type Deps struct {
	Auth    ports.AuthService
	Temples ports.TempleService
	Stats   ports.StatsService
	Uploads Uploads
	Checks  []handlers.Check
	Logger  zerolog.Logger

	CORSOrigins    []string
	MaxUploadFiles int
	MaxUploadBytes int64

	// Nil means the prometheus default registry.
	MetricsRegisterer prometheus.Registerer
	MetricsGatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	registerer := deps.MetricsRegisterer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.MetricsGatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: corsOrigins(deps.CORSOrigins),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Idempotency-Key"},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	authenticate := middleware.Authenticate(deps.Auth)
	adminOnly := []echo.MiddlewareFunc{authenticate, middleware.RequireAdmin()}

	authHandler := handler.NewAuthHandler(deps.Auth)
	templeHandler := handler.NewTempleHandler(deps.Temples, deps.MaxUploadFiles)
	adminHandler := handler.NewAdminHandler(deps.Stats, deps.Auth)

	// --- User routes ---
	users := e.Group("/api/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.GET("/profile", authHandler.Profile, authenticate)

	// --- Temple routes: reads are public, every mutation is admin-only ---
	temples := e.Group("/api/temples")
	temples.GET("", templeHandler.List)
	temples.GET("/:id", templeHandler.Get)

	writes := []echo.MiddlewareFunc{authenticate, middleware.RequireAdmin(), bodyLimit(deps.MaxUploadBytes)}
	temples.POST("", templeHandler.Create, writes...)
	temples.PUT("/:id", templeHandler.Update, writes...)
	temples.DELETE("/:id", templeHandler.Delete, adminOnly...)

	// --- Admin dashboard ---
	admin := e.Group("/api/admin", adminOnly...)
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/users", adminHandler.Users)

	// --- Uploaded images ---
	switch {
	case deps.Uploads.Dir != "":
		e.Static("/uploads", deps.Uploads.Dir)
	case deps.Uploads.Source != nil:
		e.GET("/uploads/:name", handler.NewImageHandler(deps.Uploads.Source).Serve)
	}

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Checks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// bodyLimit caps multipart request bodies. Bytes are converted to echo's
// limit notation ("33554432B").
func bodyLimit(maxBytes int64) echo.MiddlewareFunc {
	if maxBytes <= 0 {
		maxBytes = 32 << 20
	}
	return echomiddleware.BodyLimit(strconv.FormatInt(maxBytes, 10) + "B")
}
