package domain

import "time"

// Claims is the decoded payload of an authentication token.
type Claims struct {
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// HasRole reports whether the identity carries one of the given roles.
func (i Identity) HasRole(roles ...string) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
	Username  string
	Email     string
	Role      string
	UserID    string
}
