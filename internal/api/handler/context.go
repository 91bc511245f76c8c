package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/servicebazaar/bazaar-api/internal/api/middleware"
	"github.com/servicebazaar/bazaar-api/internal/core/domain"
)

// ctxClaims returns the identity injected by the Auth middleware. A handler
// mounted without the guard fails closed with ErrMissingToken.
func ctxClaims(c echo.Context) (*domain.Claims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok || claims.UserID == "" {
		return nil, domain.ErrMissingToken
	}
	return claims, nil
}
