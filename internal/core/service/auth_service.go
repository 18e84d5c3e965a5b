package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/user-api/internal/core/domain"
	"github.com/userhub/user-api/internal/core/ports"
)

const (
	// DefaultTokenTTL applies when the configured TTL is not positive.
	DefaultTokenTTL = 24 * time.Hour

	tokenType = "Bearer"
)

// AuthService authenticates credentials and issues tokens.
type AuthService struct {
	credentials ports.CredentialStore
	hasher      ports.PasswordHasher
	codec       *TokenCodec
	tokenTTL    time.Duration
	now         func() time.Time
	log         zerolog.Logger

	// dummyHash is compared against on unknown usernames so both miss
	// paths cost one hash verification.
	dummyHash string
}

// NewAuthService fails if hasher cannot produce the hash used to equalise
// the cost of unknown-username logins.
func NewAuthService(
	credentials ports.CredentialStore,
	hasher ports.PasswordHasher,
	codec *TokenCodec,
	tokenTTL time.Duration,
	log zerolog.Logger,
) (*AuthService, error) {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &AuthService{
		credentials: credentials,
		hasher:      hasher,
		codec:       codec,
		tokenTTL:    tokenTTL,
		now:         time.Now,
		log:         log,
		dummyHash:   dummy,
	}, nil
}

// Login verifies username/password and returns a signed token.
// Unknown usernames and wrong passwords both fail with domain.ErrBadCredentials.
// Disabled and locked accounts are only reported once the password matched.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrBadCredentials
	}

	cred, err := s.credentials.FindCredential(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.hasher.Matches(s.dummyHash, password)
			return nil, domain.ErrBadCredentials
		}
		return nil, fmt.Errorf("login: find credential: %w", err)
	}

	if !s.hasher.Matches(cred.SecretHash, password) {
		if err := s.credentials.RecordLoginFailure(ctx, cred.Username); err != nil {
			s.log.Warn().Err(err).Str("username", cred.Username).Msg("failed to record login failure")
		}
		return nil, domain.ErrBadCredentials
	}

	switch {
	case cred.Disabled:
		return nil, domain.ErrAccountDisabled
	case cred.Locked:
		return nil, domain.ErrAccountLocked
	}

	if err := s.credentials.RecordLoginSuccess(ctx, cred.Username); err != nil {
		s.log.Warn().Err(err).Str("username", cred.Username).Msg("failed to reset login failures")
	}

	issuedAt := s.now()
	token, err := s.codec.Issue(cred.Username, cred.RoleName, issuedAt, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	return &domain.LoginResult{
		Token:     token,
		TokenType: tokenType,
		ExpiresAt: issuedAt.UTC().Truncate(time.Second).Add(s.tokenTTL),
		Username:  cred.Username,
		Email:     cred.Email,
		Role:      cred.RoleName,
		UserID:    cred.SubjectID,
	}, nil
}
