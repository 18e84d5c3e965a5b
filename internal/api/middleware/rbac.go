package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/userhub/user-api/internal/core/domain"
)

// RBAC enforces role-based access control on the identity set by Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := domain.IdentityFrom(c.Request().Context())
			if !ok {
				return domain.ErrUnauthenticated
			}
			if !id.HasRole(allowedRoles...) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
