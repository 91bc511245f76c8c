package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/servicebazaar/bazaar-api/docs"
	"github.com/servicebazaar/bazaar-api/internal/api/handler"
	"github.com/servicebazaar/bazaar-api/internal/api/metrics"
	"github.com/servicebazaar/bazaar-api/internal/api/middleware"
	"github.com/servicebazaar/bazaar-api/internal/core/domain"
	"github.com/servicebazaar/bazaar-api/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Auth     ports.AuthService
	Tokens   ports.TokenVerifier
	Catalog  ports.CatalogService
	Bookings ports.BookingService
	Inbox    ports.InboxService

	// Limiter throttles register and login. Nil disables rate limiting.
	Limiter middleware.Limiter
	// Readiness lists the dependencies pinged by /health/ready.
	Readiness map[string]handler.Pinger
	// Metrics receives the HTTP and domain metrics and backs /metrics.
	// Nil means the default registry.
	Metrics *prometheus.Registry

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Every API route is served both at the root and under /api.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Metrics != nil {
		registerer, gatherer = deps.Metrics, deps.Metrics
	}
	if err := metrics.Register(registerer); err != nil {
		deps.Logger.Error().Err(err).Msg("register domain metrics")
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "bazaar",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	serviceHandler := handler.NewServiceHandler(deps.Catalog)
	bookingHandler := handler.NewBookingHandler(deps.Bookings)
	inboxHandler := handler.NewInboxHandler(deps.Inbox)

	authMW := middleware.Auth(deps.Tokens)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	userOnly := middleware.RBAC(domain.RoleUser)
	limited := middleware.RateLimit(deps.Limiter, deps.Logger)

	for _, prefix := range []string{"", "/api"} {
		g := e.Group(prefix)

		// --- Auth routes ---
		g.POST("/auth/register", authHandler.Register, limited)
		g.POST("/auth/login", authHandler.Login, limited)
		g.GET("/auth/me", authHandler.Me, authMW)

		// --- Catalog routes ---
		g.GET("/services", serviceHandler.List)
		g.GET("/services/:id", serviceHandler.Get)
		g.POST("/services", serviceHandler.Create, authMW, adminOnly)
		g.PUT("/services/:id", serviceHandler.Update, authMW, adminOnly)
		g.DELETE("/services/:id", serviceHandler.Delete, authMW, adminOnly)

		// --- Booking routes ---
		g.POST("/bookings", bookingHandler.Create, authMW, userOnly)
		g.GET("/bookings", bookingHandler.List, authMW)

		// --- Inbox routes ---
		g.POST("/feedback", inboxHandler.SubmitFeedback)
		g.POST("/contact", inboxHandler.SubmitContact)
		g.GET("/feedback", inboxHandler.ListFeedback, authMW, adminOnly)
		g.GET("/contact", inboxHandler.ListContact, authMW, adminOnly)
	}

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one structured line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			var event *zerolog.Event
			switch {
			case v.Status >= 500:
				event = log.Error().Err(v.Error)
			case v.Status >= 400:
				event = log.Warn()
			default:
				event = log.Info()
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
