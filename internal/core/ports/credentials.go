package ports

import (
	"context"

	"github.com/userhub/user-api/internal/core/domain"
)

// CredentialStore resolves stored credentials by username and owns the
// disabled/locked policy for accounts.
type CredentialStore interface {
	// FindCredential returns domain.ErrNotFound (wrapped) when the username is unknown.
	FindCredential(ctx context.Context, username string) (*domain.Credential, error)
	RecordLoginFailure(ctx context.Context, username string) error
	RecordLoginSuccess(ctx context.Context, username string) error
}

// PasswordHasher is the one-way secret primitive: hashing and verification.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Matches(hash, plain string) bool
}
