package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/userhub/user-api/internal/core/domain"
	"github.com/userhub/user-api/internal/core/ports"
)

type UserService struct {
	repo      ports.UserRepository
	validator *MutationValidator
	logger    zerolog.Logger
}

func NewUserService(repo ports.UserRepository, validator *MutationValidator, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, validator: validator, logger: logger}
}

func (s *UserService) List(ctx context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	return s.repo.List(ctx, filter)
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// Create validates patch with the creation rules and persists the new user.
func (s *UserService) Create(ctx context.Context, patch ports.UserPatch) (*domain.User, error) {
	user, err := s.validator.CreateUser(ctx, patch)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user created")
	return created, nil
}

// UpdateSelf applies an owner-initiated patch. The role cannot be changed here.
func (s *UserService) UpdateSelf(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	patch.RoleName = ""
	return s.update(ctx, id, patch)
}

// UpdateByAdmin applies an administrative patch. The password cannot be changed here.
func (s *UserService) UpdateByAdmin(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	patch.Password = ""
	return s.update(ctx, id, patch)
}

func (s *UserService) update(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.validator.ApplyUser(ctx, existing, patch)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Update(ctx, updated)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	return saved, nil
}

// Delete removes the user and returns its last state.
func (s *UserService) Delete(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete user %s: %w", id, err)
	}
	s.logger.Info().Str("user_id", id).Str("username", user.Username).Msg("user deleted")
	return user, nil
}
