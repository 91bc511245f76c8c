package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/servicebazaar/bazaar-api/internal/api/metrics"
)

// Limiter decides whether one more hit for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// RateLimit throttles requests per client IP and route. A nil limiter
// disables the middleware; limiter errors let the request through.
func RateLimit(limiter Limiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if limiter == nil {
			return next
		}
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			route := c.Request().Method + " " + c.Path()

			allowed, retry, err := limiter.Allow(c.Request().Context(), route+":"+ip)
			if err != nil {
				log.Warn().Err(err).Str("route", route).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !allowed {
				secs := int(math.Ceil(retry.Seconds()))
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				metrics.RateLimitedTotal.WithLabelValues(route).Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
