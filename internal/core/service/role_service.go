package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/userhub/user-api/internal/core/domain"
	"github.com/userhub/user-api/internal/core/ports"
)

type RoleService struct {
	roles     ports.RoleRepository
	users     ports.UserRepository
	validator *MutationValidator
	logger    zerolog.Logger
}

func NewRoleService(roles ports.RoleRepository, users ports.UserRepository, validator *MutationValidator, logger zerolog.Logger) *RoleService {
	return &RoleService{roles: roles, users: users, validator: validator, logger: logger}
}

func (s *RoleService) List(ctx context.Context) ([]*domain.Role, error) {
	return s.roles.List(ctx)
}

func (s *RoleService) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	return s.roles.FindByID(ctx, id)
}

func (s *RoleService) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	return s.roles.FindByName(ctx, name)
}

func (s *RoleService) Create(ctx context.Context, patch ports.RolePatch) (*domain.Role, error) {
	role, err := s.validator.CreateRole(ctx, patch)
	if err != nil {
		return nil, err
	}
	created, err := s.roles.Create(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	return created, nil
}

// Update applies a sparse patch. A rename rebinds every user holding the old name.
func (s *RoleService) Update(ctx context.Context, id string, patch ports.RolePatch) (*domain.Role, error) {
	existing, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.validator.ApplyRole(ctx, existing, patch)
	if err != nil {
		return nil, err
	}
	saved, err := s.roles.Update(ctx, updated)
	if err != nil {
		return nil, fmt.Errorf("update role %s: %w", id, err)
	}

	if saved.Name != existing.Name {
		if err := s.users.ReassignRole(ctx, existing.Name, saved.Name); err != nil {
			return nil, fmt.Errorf("reassign users from role %s: %w", existing.Name, err)
		}
		s.logger.Info().Str("from", existing.Name).Str("to", saved.Name).Msg("role renamed")
	}
	return saved, nil
}

// Delete removes a role nobody references. Referenced roles yield domain.ErrRoleInUse.
func (s *RoleService) Delete(ctx context.Context, id string) (*domain.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	n, err := s.users.CountByRole(ctx, role.Name)
	if err != nil {
		return nil, fmt.Errorf("count users of role %s: %w", role.Name, err)
	}
	if n > 0 {
		return nil, fmt.Errorf("role %s has %d users: %w", role.Name, n, domain.ErrRoleInUse)
	}
	if err := s.roles.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete role %s: %w", id, err)
	}
	return role, nil
}
