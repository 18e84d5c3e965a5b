package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/user-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	authority   ports.TokenAuthority
}

func NewAuthHandler(authService ports.AuthService, authority ports.TokenAuthority) *AuthHandler {
	return &AuthHandler{authService: authService, authority: authority}
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorsResponse
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:     res.Token,
		Type:      res.TokenType,
		ExpiresAt: res.ExpiresAt,
		Username:  res.Username,
		Email:     res.Email,
		Role:      res.Role,
		UserID:    res.UserID,
	})
}

// Validate reports whether the bearer token in the Authorization header is valid.
//
// @Summary      Validate a token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.TokenValidation
// @Failure      401  {object}  ports.TokenValidation
// @Router       /auth/validate [get]
func (h *AuthHandler) Validate(c echo.Context) error {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return c.JSON(http.StatusUnauthorized, ports.TokenValidation{Valid: false})
	}
	return c.JSON(http.StatusOK, h.authority.Probe(header))
}
