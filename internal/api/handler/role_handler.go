package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/user-api/internal/core/ports"
)

// RoleHandler handles HTTP requests for role operations.
type RoleHandler struct {
	service ports.RoleService
}

func NewRoleHandler(service ports.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// List handles GET /roles.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   roleResponse
// @Success      204
// @Router       /roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	out := make([]roleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRoleResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

// GetByID handles GET /roles/id/:id.
//
// @Summary      Get a role by id
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Role id"
// @Success      200  {object}  roleResponse
// @Failure      404  {object}  errorsResponse
// @Router       /roles/id/{id} [get]
func (h *RoleHandler) GetByID(c echo.Context) error {
	r, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(r))
}

// GetByName handles GET /roles/name/:name.
//
// @Summary      Get a role by name
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Role name"
// @Success      200   {object}  roleResponse
// @Failure      404   {object}  errorsResponse
// @Router       /roles/name/{name} [get]
func (h *RoleHandler) GetByName(c echo.Context) error {
	r, err := h.service.GetByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(r))
}

// Create handles POST /roles.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      roleRequest  true  "Role details"
// @Success      201   {object}  roleResponse
// @Failure      400   {object}  errorsResponse
// @Failure      403   {object}  map[string]string
// @Router       /roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req roleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	r, err := h.service.Create(c.Request().Context(), ports.RolePatch{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderLocation, "/roles/id/"+r.ID)
	return c.JSON(http.StatusCreated, toRoleResponse(r))
}

// Update handles PATCH /roles/:id. Renaming rebinds users of the old name.
//
// @Summary      Update a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Role id"
// @Param        body  body      roleRequest  true  "Fields to change"
// @Success      200   {object}  roleResponse
// @Failure      400   {object}  errorsResponse
// @Failure      404   {object}  errorsResponse
// @Router       /roles/{id} [patch]
func (h *RoleHandler) Update(c echo.Context) error {
	var req roleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	r, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.RolePatch{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(r))
}

// Delete handles DELETE /roles/:id.
//
// @Summary      Delete a role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Role id"
// @Success      200  {object}  deleteResponse
// @Failure      404  {object}  errorsResponse
// @Failure      409  {object}  map[string]string
// @Router       /roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	r, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteResponse{
		Message: "Role deleted successfully",
		ID:      r.ID,
		Name:    r.Name,
	})
}
