package ports

import (
	"context"

	"github.com/userhub/user-api/internal/core/domain"
)

// RoleResolver resolves a role reference by name.
type RoleResolver interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
}

// RoleRepository defines persistence operations for roles.
type RoleRepository interface {
	UniquenessOracle
	RoleResolver
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	Update(ctx context.Context, role *domain.Role) (*domain.Role, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
}
