package ports

import (
	"context"

	"github.com/userhub/user-api/internal/core/domain"
)

// UniquenessOracle answers whether any record other than excludeID already
// holds value for field. An empty excludeID checks every record.
type UniquenessOracle interface {
	Taken(ctx context.Context, field, value, excludeID string) (bool, error)
}

// UserFilter narrows List. Empty fields match everything.
type UserFilter struct {
	Name     string
	RoleName string
}

// UserRepository defines persistence operations for users. Lookup misses are
// reported as *domain.NotFoundError.
type UserRepository interface {
	UniquenessOracle
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	CountByRole(ctx context.Context, roleName string) (int64, error)
	// ReassignRole rebinds every user referencing from to the role named to.
	ReassignRole(ctx context.Context, from, to string) error
}
