package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/user-api/internal/core/domain"
	"github.com/userhub/user-api/internal/core/ports"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	service   ports.UserService
	authority ports.TokenAuthority
}

func NewUserHandler(service ports.UserService, authority ports.TokenAuthority) *UserHandler {
	return &UserHandler{service: service, authority: authority}
}

// List handles GET /users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	return h.list(c, ports.UserFilter{})
}

// ListByName handles GET /users/name/:name.
//
// @Summary      List users by exact name
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Full name"
// @Success      200   {array}   userResponse
// @Success      204
// @Router       /users/name/{name} [get]
func (h *UserHandler) ListByName(c echo.Context) error {
	return h.list(c, ports.UserFilter{Name: c.Param("name")})
}

// ListByRole handles GET /users/role/:roleName.
//
// @Summary      List users bound to a role
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        roleName  path      string  true  "Role name"
// @Success      200       {array}   userResponse
// @Success      204
// @Router       /users/role/{roleName} [get]
func (h *UserHandler) ListByRole(c echo.Context) error {
	return h.list(c, ports.UserFilter{RoleName: c.Param("roleName")})
}

func (h *UserHandler) list(c echo.Context, filter ports.UserFilter) error {
	users, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Get handles GET /users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorsResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	u, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// GetByEmail handles GET /users/email/:email.
//
// @Summary      Get a user by email
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Email address"
// @Success      200    {object}  userResponse
// @Failure      404    {object}  errorsResponse
// @Router       /users/email/{email} [get]
func (h *UserHandler) GetByEmail(c echo.Context) error {
	u, err := h.service.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// GetByUsername handles GET /users/username/:username.
//
// @Summary      Get a user by username
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  userResponse
// @Failure      404       {object}  errorsResponse
// @Router       /users/username/{username} [get]
func (h *UserHandler) GetByUsername(c echo.Context) error {
	u, err := h.service.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// Create handles POST /users. Registration is public; roleName is honoured
// only for callers presenting an ADMIN token, everyone else gets the default role.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorsResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	patch := ports.UserPatch{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		if id, err := h.authority.Authorize(header); err == nil {
			ctx = domain.WithIdentity(ctx, id)
			if id.HasRole(domain.RoleAdmin) {
				patch.RoleName = req.RoleName
			}
		}
	}

	u, err := h.service.Create(ctx, patch)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, "/users/"+u.ID)
	return c.JSON(http.StatusCreated, toUserResponse(u))
}

// UpdateByAdmin handles PATCH /users/:id.
//
// @Summary      Update a user (administrators)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorsResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  errorsResponse
// @Router       /users/{id} [patch]
func (h *UserHandler) UpdateByAdmin(c echo.Context) error {
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	u, err := h.service.UpdateByAdmin(c.Request().Context(), c.Param("id"), ports.UserPatch{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		RoleName: req.RoleName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// UpdateSelf handles PATCH /users/self/:id. The token subject must own the account.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateSelfRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorsResponse
// @Failure      403   {object}  map[string]string
// @Router       /users/self/{id} [patch]
func (h *UserHandler) UpdateSelf(c echo.Context) error {
	var req updateSelfRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if _, err := h.authority.Authorize(header); err != nil {
		return err
	}

	// An unknown id can never belong to the caller.
	target, err := h.service.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrForbidden
	}
	if err != nil {
		return err
	}
	if _, err := h.authority.AuthorizeSubject(header, target.Username); err != nil {
		return err
	}

	u, err := h.service.UpdateSelf(ctx, id, ports.UserPatch{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  deleteResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  errorsResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	u, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteResponse{
		Message: "User deleted successfully",
		ID:      u.ID,
		Name:    u.Name,
	})
}
