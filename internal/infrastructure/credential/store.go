// Package credential composes the user store and the failed-login counter
// into the credential view used by the authenticator.
package credential

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/userhub/user-api/internal/core/domain"
)

// UserFinder looks users up by username.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Lockout tracks failed logins per username.
type Lockout interface {
	IsLocked(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// Store implements ports.CredentialStore. Disabled comes from the user
// record; Locked comes from the failed-login counter.
type Store struct {
	users   UserFinder
	lockout Lockout
	log     zerolog.Logger
}

func NewStore(users UserFinder, lockout Lockout, log zerolog.Logger) *Store {
	return &Store{users: users, lockout: lockout, log: log}
}

func (s *Store) FindCredential(ctx context.Context, username string) (*domain.Credential, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find credential: %w", err)
	}

	locked, err := s.lockout.IsLocked(ctx, username)
	if err != nil {
		// Counter unavailable: authenticate on the password alone.
		s.log.Warn().Err(err).Str("username", username).Msg("lockout state unavailable")
		locked = false
	}

	return &domain.Credential{
		SubjectID:  u.ID,
		Username:   u.Username,
		Email:      u.Email,
		SecretHash: u.PasswordHash,
		RoleName:   u.RoleName,
		Disabled:   u.Disabled,
		Locked:     locked,
	}, nil
}

func (s *Store) RecordLoginFailure(ctx context.Context, username string) error {
	return s.lockout.RecordFailure(ctx, username)
}

func (s *Store) RecordLoginSuccess(ctx context.Context, username string) error {
	return s.lockout.Reset(ctx, username)
}
