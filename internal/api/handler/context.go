package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/userhub/user-api/internal/core/domain"
)

// bindAndValidate decodes the request body into req and runs shape validation.
// Undecodable bodies are reported as a single validation error.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.ValidationErrors{{Field: "body", Message: "Malformed request body"}}
	}
	return c.Validate(req)
}
