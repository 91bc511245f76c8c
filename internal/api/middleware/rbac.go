package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/servicebazaar/bazaar-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				recordDenied(domain.ErrMissingToken)
				return domain.ErrMissingToken
			}
			if err := requireRole(claims, allowedRoles); err != nil {
				recordDenied(err)
				return err
			}
			return next(c)
		}
	}
}
