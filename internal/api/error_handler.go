package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userhub/user-api/internal/core/domain"
)

// errorResponse is the envelope for errors that carry a single message.
type errorResponse struct {
	Error string `json:"error"`
}

// fieldErrorsResponse is the envelope for validation and lookup failures.
type fieldErrorsResponse struct {
	Errors []domain.ValidationError `json:"errors"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Collapses every authentication failure into one generic 401 body.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, any) {
	// Echo's own errors (router 404, 405, body too large, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest, fieldErrorsResponse{Errors: verrs}
	}

	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return http.StatusNotFound, fieldErrorsResponse{Errors: []domain.ValidationError{
			{Field: nf.Field, Message: nf.Message},
		}}
	}

	switch {
	case errors.Is(err, domain.ErrBadCredentials),
		errors.Is(err, domain.ErrAccountDisabled),
		errors.Is(err, domain.ErrAccountLocked):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "authentication required"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrRoleInUse):
		return http.StatusConflict, errorResponse{Error: "role is assigned to users"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
