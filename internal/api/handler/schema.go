package handler

import (
	"time"

	"github.com/userhub/user-api/internal/core/domain"
)

// --- Auth ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Type      string    `json:"type"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	UserID    string    `json:"userId"`
}

// --- Users ---

// Mutation requests carry no validate tags: presence, format and store
// checks all run in the mutation validator and come back as one error set.
type createUserRequest struct {
	Name     string `json:"name" example:"Antonia Alarcon"`
	Username string `json:"username" example:"antoniaa"`
	Email    string `json:"email" example:"antonia.alarcon@example.com"`
	Password string `json:"password" example:"password123"`
	RoleName string `json:"roleName" example:"USER"`
}

type updateSelfRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	RoleName string `json:"roleName"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	RoleName  string    `json:"roleName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// --- Roles ---

type roleRequest struct {
	Name        string `json:"name" example:"AUDITOR"`
	Description string `json:"description" example:"Read-only access"`
}

type roleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// --- Shared ---

type deleteResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Name    string `json:"name"`
}

// errorsResponse documents the validation/not-found envelope rendered by the
// central error handler.
type errorsResponse struct {
	Errors []domain.ValidationError `json:"errors"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		RoleName:  u.RoleName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toRoleResponse(r *domain.Role) roleResponse {
	return roleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
