package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/servicebazaar/bazaar-api/internal/api/metrics"
	"github.com/servicebazaar/bazaar-api/internal/core/domain"
	"github.com/servicebazaar/bazaar-api/internal/core/ports"
)

// ClaimsKey is the echo context key holding the verified *domain.Claims.
const ClaimsKey = "claims"

type claimsCtxKey struct{}

// Authorize extracts the bearer token from r, verifies it and, when roles are
// given, checks that the token carries one of them. Signature and expiry are
// always checked before the role.
func Authorize(r *http.Request, verifier ports.TokenVerifier, roles ...domain.Role) (*domain.Claims, error) {
	token, err := bearerToken(r.Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return nil, err
	}

	claims, err := verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	if err := requireRole(claims, roles); err != nil {
		return claims, err
	}
	return claims, nil
}

// requireRole is a no-op for an empty role list.
func requireRole(claims *domain.Claims, roles []domain.Role) error {
	if len(roles) > 0 && !claims.HasRole(roles...) {
		return domain.ErrInsufficientRole
	}
	return nil
}

// bearerToken treats a bare "Bearer" scheme like an absent header.
func bearerToken(header string) (string, error) {
	fields := strings.Fields(header)
	switch {
	case len(fields) == 0:
		return "", domain.ErrMissingToken
	case !strings.EqualFold(fields[0], "bearer"):
		return "", domain.ErrInvalidToken
	case len(fields) == 1:
		return "", domain.ErrMissingToken
	case len(fields) > 2:
		return "", domain.ErrInvalidToken
	}
	return fields[1], nil
}

// Auth validates the JWT and injects claims into both the echo context and
// the request context.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := Authorize(c.Request(), verifier)
			if err != nil {
				recordDenied(err)
				return err
			}
			setClaims(c, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by Auth.
func ClaimsFrom(c echo.Context) (*domain.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*domain.Claims)
	return claims, ok && claims != nil
}

// ClaimsFromContext returns the claims stored by Auth on the request context.
func ClaimsFromContext(ctx context.Context) (*domain.Claims, bool) {
	claims, ok := ctx.Value(claimsCtxKey{}).(*domain.Claims)
	return claims, ok && claims != nil
}

func setClaims(c echo.Context, claims *domain.Claims) {
	c.Set(ClaimsKey, claims)
	c.SetRequest(c.Request().WithContext(context.WithValue(c.Request().Context(), claimsCtxKey{}, claims)))
}

func recordDenied(err error) {
	reason := "invalid_token"
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		reason = "missing_token"
	case errors.Is(err, domain.ErrInsufficientRole):
		reason = "insufficient_role"
	}
	metrics.AuthorizationDeniedTotal.WithLabelValues(reason).Inc()
}
