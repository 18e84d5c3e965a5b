package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Authentication failures. They share one external signal (401) and are
// distinguished only in logs.
var (
	ErrBadCredentials  = errors.New("bad credentials")
	ErrAccountDisabled = errors.New("account disabled")
	ErrAccountLocked   = errors.New("account locked")
)

// Token failures, collapsed to ErrUnauthenticated at the request boundary.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
	ErrWeakSigningKey        = errors.New("signing key shorter than 32 bytes")
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("entity not found")
	ErrRoleInUse       = errors.New("role is assigned to users")
)

// ValidationError describes a single rejected field of a mutation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the aggregated outcome of a failed validation pass.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the rejected field names in order.
func (v ValidationErrors) Fields() []string {
	out := make([]string, len(v))
	for i, e := range v {
		out[i] = e.Field
	}
	return out
}

// NotFoundError reports a lookup miss attributable to one field.
type NotFoundError struct {
	Entity  string
	Field   string
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func UserNotFound(field, value string) *NotFoundError {
	return &NotFoundError{
		Entity:  "User",
		Field:   field,
		Message: fmt.Sprintf("User not found with %s: %s", field, value),
	}
}

func RoleNotFound(field, value string) *NotFoundError {
	return &NotFoundError{
		Entity:  "Role",
		Field:   field,
		Message: fmt.Sprintf("Role not found with %s: %s", field, value),
	}
}
