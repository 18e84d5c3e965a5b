package domain

import "time"

const (
	RoleAdmin   = "ADMIN"
	RoleUser    = "USER"
	RoleManager = "MANAGER"

	// DefaultRoleName is bound to new users whose request omits a role.
	DefaultRoleName = RoleUser
)

// IsBuiltInRole reports whether name is one of the roles authorization rules
// and registration refer to by name.
func IsBuiltInRole(name string) bool {
	switch name {
	case RoleAdmin, RoleUser, RoleManager:
		return true
	}
	return false
}

// User models an account managed by the service.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleName     string    `json:"roleName"`
	Disabled     bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Credential is the read-only view of a user used during authentication.
// Disabled and Locked are decided by the credential store.
type Credential struct {
	SubjectID  string
	Username   string
	Email      string
	SecretHash string
	RoleName   string
	Disabled   bool
	Locked     bool
}
