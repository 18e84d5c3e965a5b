package ports

import (
	"context"

	"github.com/userhub/user-api/internal/core/domain"
)

// UserPatch is a sparse update: blank fields leave the current value unchanged.
type UserPatch struct {
	Name     string
	Username string
	Email    string
	Password string
	RoleName string
}

// RolePatch is a sparse update for roles.
type RolePatch struct {
	Name        string
	Description string
}

// UserService defines use-case operations for users.
type UserService interface {
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, patch UserPatch) (*domain.User, error)
	UpdateSelf(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	UpdateByAdmin(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) (*domain.User, error)
}

// RoleService defines use-case operations for roles.
type RoleService interface {
	List(ctx context.Context) ([]*domain.Role, error)
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	Create(ctx context.Context, patch RolePatch) (*domain.Role, error)
	Update(ctx context.Context, id string, patch RolePatch) (*domain.Role, error)
	Delete(ctx context.Context, id string) (*domain.Role, error)
}
