package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/userhub/user-api/internal/core/domain"
)

// minSigningKeyBytes is the HS256 key length floor (RFC 7518 §3.2).
const minSigningKeyBytes = 32

// TokenCodec signs and parses compact HS256 tokens bound to one symmetric key.
// It holds no mutable state and is safe for concurrent use.
type TokenCodec struct {
	key []byte
	now func() time.Time
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewTokenCodec returns a codec for secret, rejecting keys below the HS256 floor.
func NewTokenCodec(secret string) (*TokenCodec, error) {
	if len(secret) < minSigningKeyBytes {
		return nil, domain.ErrWeakSigningKey
	}
	return &TokenCodec{key: []byte(secret), now: time.Now}, nil
}

// Issue embeds subject, role, issuedAt and issuedAt+ttl into a signed token.
// Timestamps are truncated to whole seconds.
func (c *TokenCodec) Issue(subject, role string, issuedAt time.Time, ttl time.Duration) (string, error) {
	iat := issuedAt.UTC().Truncate(time.Second)
	claims := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(iat.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

// ParseAndVerify checks the signature, then expiry (now >= exp is expired),
// and returns the embedded claims. Failures are one of
// domain.ErrTokenSignatureInvalid, domain.ErrTokenExpired or domain.ErrTokenMalformed.
func (c *TokenCodec) ParseAndVerify(token string) (domain.Claims, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return domain.Claims{}, classifyTokenError(token, err)
	}
	if claims.Subject == "" || claims.IssuedAt == nil {
		return domain.Claims{}, domain.ErrTokenMalformed
	}

	return domain.Claims{
		Subject:   claims.Subject,
		Role:      claims.Role,
		IssuedAt:  claims.IssuedAt.Time.UTC(),
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}

// strictSegments decodes header and payload the same way ParseAndVerify does.
var strictSegments = jwt.NewParser(jwt.WithStrictDecoding())

// classifyTokenError maps parser failures onto the domain token errors. A
// token whose header and payload decode but whose signature segment does not
// has a bad signature, not a bad shape.
func classifyTokenError(token string, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed) && signingInputDecodes(token):
		return domain.ErrTokenSignatureInvalid
	default:
		return domain.ErrTokenMalformed
	}
}

// signingInputDecodes reports whether the header and payload of token parse
// on their own, with the signature segment left empty.
func signingInputDecodes(token string) bool {
	i := strings.LastIndexByte(token, '.')
	if i < 0 {
		return false
	}
	_, _, err := strictSegments.ParseUnverified(token[:i+1], &tokenClaims{})
	return err == nil
}
