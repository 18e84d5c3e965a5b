package ports

import (
	"context"

	"github.com/userhub/user-api/internal/core/domain"
)

// AuthService turns a username/password pair into a signed token.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*domain.LoginResult, error)
}

// TokenValidation is the outcome of the token validation probe.
type TokenValidation struct {
	Valid    bool    `json:"valid"`
	Username *string `json:"username"`
	Role     *string `json:"role"`
}

// TokenAuthority gates authenticated requests.
type TokenAuthority interface {
	Authorize(rawHeader string) (domain.Identity, error)
	AuthorizeSubject(rawHeader, subject string) (domain.Identity, error)
	Probe(rawHeader string) TokenValidation
}
