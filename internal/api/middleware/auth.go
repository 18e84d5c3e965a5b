package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/userhub/user-api/internal/core/domain"
	"github.com/userhub/user-api/internal/core/ports"
)

// Auth validates the bearer token on every request and attaches the caller
// identity to the request context. Failures surface as domain.ErrUnauthenticated.
func Auth(authority ports.TokenAuthority) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := authority.Authorize(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}

			req := c.Request()
			c.SetRequest(req.WithContext(domain.WithIdentity(req.Context(), id)))
			return next(c)
		}
	}
}
