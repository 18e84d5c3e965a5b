package service

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/userhub/user-api/internal/core/domain"
	"github.com/userhub/user-api/internal/core/ports"
	"github.com/userhub/user-api/internal/pkg/metrics"
)

const bearerPrefix = "Bearer "

// TokenAuthority validates bearer tokens on every request. Nothing is cached
// between calls; every decision is re-derived from the token.
type TokenAuthority struct {
	codec *TokenCodec
	log   zerolog.Logger
}

func NewTokenAuthority(codec *TokenCodec, log zerolog.Logger) *TokenAuthority {
	return &TokenAuthority{codec: codec, log: log}
}

// Authorize extracts the caller identity from an Authorization header value.
// Every failure is reported as domain.ErrUnauthenticated; the precise reason
// is only logged.
func (a *TokenAuthority) Authorize(rawHeader string) (domain.Identity, error) {
	token, ok := bearerToken(rawHeader)
	if !ok {
		a.reject("missing_header", nil)
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	claims, err := a.codec.ParseAndVerify(token)
	if err != nil {
		a.reject(tokenFailureReason(err), err)
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()
	return domain.Identity{Username: claims.Subject, Role: claims.Role}, nil
}

// AuthorizeSubject is Authorize plus a check that the token was issued to subject.
// A valid token for another subject yields domain.ErrForbidden.
func (a *TokenAuthority) AuthorizeSubject(rawHeader, subject string) (domain.Identity, error) {
	id, err := a.Authorize(rawHeader)
	if err != nil {
		return domain.Identity{}, err
	}
	if id.Username != subject {
		metrics.TokenValidationsTotal.WithLabelValues("subject_mismatch").Inc()
		a.log.Debug().Str("subject", id.Username).Str("expected", subject).Msg("token subject mismatch")
		return domain.Identity{}, domain.ErrForbidden
	}
	return id, nil
}

// Probe reports token validity without failing.
func (a *TokenAuthority) Probe(rawHeader string) ports.TokenValidation {
	id, err := a.Authorize(rawHeader)
	if err != nil {
		return ports.TokenValidation{Valid: false}
	}
	return ports.TokenValidation{Valid: true, Username: &id.Username, Role: &id.Role}
}

func (a *TokenAuthority) reject(reason string, err error) {
	metrics.TokenValidationsTotal.WithLabelValues(reason).Inc()
	a.log.Debug().Err(err).Str("reason", reason).Msg("token rejected")
}

// bearerToken returns the token of a "Bearer <token>" header.
func bearerToken(rawHeader string) (string, bool) {
	if !strings.HasPrefix(rawHeader, bearerPrefix) {
		return "", false
	}
	token := rawHeader[len(bearerPrefix):]
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

func tokenFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenSignatureInvalid):
		return "bad_signature"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	default:
		return "malformed"
	}
}
