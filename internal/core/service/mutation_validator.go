package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/userhub/user-api/internal/core/domain"
	"github.com/userhub/user-api/internal/core/ports"
	"github.com/userhub/user-api/internal/pkg/metrics"
)

// DefaultMinPasswordLength applies when the configured minimum is not positive.
const DefaultMinPasswordLength = 6

// Field names reported in validation errors.
const (
	FieldName        = "name"
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldRoleName    = "roleName"
	FieldDescription = "description"
)

// MutationValidator applies sparse patches to users and roles. Every field
// is checked before anything is applied: either all violations come back as
// domain.ValidationErrors and the target is untouched, or a fully updated
// copy is returned. Store failures abort the pass and are returned as is.
type MutationValidator struct {
	users          ports.UniquenessOracle
	roles          ports.RoleRepository
	hasher         ports.PasswordHasher
	minPasswordLen int
	now            func() time.Time
}

func NewMutationValidator(
	users ports.UniquenessOracle,
	roles ports.RoleRepository,
	hasher ports.PasswordHasher,
	minPasswordLen int,
) *MutationValidator {
	if minPasswordLen <= 0 {
		minPasswordLen = DefaultMinPasswordLength
	}
	return &MutationValidator{
		users:          users,
		roles:          roles,
		hasher:         hasher,
		minPasswordLen: minPasswordLen,
		now:            time.Now,
	}
}

// fieldCheck validates one patch field. run may hit a store and is executed
// concurrently with the other checks; apply only runs once every check passed.
type fieldCheck[T any] struct {
	run   func(ctx context.Context) (*domain.ValidationError, error)
	apply func(target *T)
}

// CreateUser validates a creation request. Name, username, email and password
// are required; an absent role binds DefaultRoleName.
func (v *MutationValidator) CreateUser(ctx context.Context, patch ports.UserPatch) (*domain.User, error) {
	roleName := patch.RoleName
	if isBlank(roleName) {
		roleName = domain.DefaultRoleName
	}

	checks := []fieldCheck[domain.User]{
		required(FieldName, patch.Name, userNameRule, func(u *domain.User, s string) { u.Name = s }),
		requiredUnique(v.users, FieldUsername, patch.Username, usernameRule, func(u *domain.User, s string) { u.Username = s }),
		requiredUnique(v.users, FieldEmail, patch.Email, emailRule, func(u *domain.User, s string) { u.Email = s }),
	}
	if isBlank(patch.Password) {
		checks = append(checks, missing[domain.User](FieldPassword))
	} else {
		checks = append(checks, v.passwordCheck(patch.Password))
	}
	checks = append(checks, v.roleCheck(roleName))

	user := &domain.User{}
	if err := evaluate(ctx, "user", user, checks); err != nil {
		return nil, err
	}
	now := v.now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	return user, nil
}

// ApplyUser validates patch against existing and returns the updated copy.
// Blank fields are left unchanged; unchanged unique fields skip the store.
func (v *MutationValidator) ApplyUser(ctx context.Context, existing *domain.User, patch ports.UserPatch) (*domain.User, error) {
	var checks []fieldCheck[domain.User]

	if name, ok := present(patch.Name); ok {
		checks = append(checks, formatted(FieldName, name, userNameRule, func(u *domain.User, s string) { u.Name = s }))
	}
	if username, ok := present(patch.Username); ok && username != existing.Username {
		checks = append(checks, unique(v.users, FieldUsername, username, existing.ID, usernameRule, func(u *domain.User, s string) { u.Username = s }))
	}
	if email, ok := present(patch.Email); ok && email != existing.Email {
		checks = append(checks, unique(v.users, FieldEmail, email, existing.ID, emailRule, func(u *domain.User, s string) { u.Email = s }))
	}
	if !isBlank(patch.Password) {
		checks = append(checks, v.passwordCheck(patch.Password))
	}
	if roleName, ok := present(patch.RoleName); ok {
		checks = append(checks, v.roleCheck(roleName))
	}

	updated := *existing
	if err := evaluate(ctx, "user", &updated, checks); err != nil {
		return nil, err
	}
	if len(checks) > 0 {
		updated.UpdatedAt = v.now().UTC()
	}
	return &updated, nil
}

// CreateRole validates a role creation request; the name is required and unique.
func (v *MutationValidator) CreateRole(ctx context.Context, patch ports.RolePatch) (*domain.Role, error) {
	checks := []fieldCheck[domain.Role]{
		requiredUnique(v.roles, FieldName, patch.Name, roleNameRule, func(r *domain.Role, s string) { r.Name = s }),
	}
	if description, ok := present(patch.Description); ok {
		checks = append(checks, formatted(FieldDescription, description, descriptionRule, func(r *domain.Role, s string) { r.Description = s }))
	}

	role := &domain.Role{}
	if err := evaluate(ctx, "role", role, checks); err != nil {
		return nil, err
	}
	now := v.now().UTC()
	role.CreatedAt = now
	role.UpdatedAt = now
	return role, nil
}

// ApplyRole validates a sparse role patch against existing.
func (v *MutationValidator) ApplyRole(ctx context.Context, existing *domain.Role, patch ports.RolePatch) (*domain.Role, error) {
	var checks []fieldCheck[domain.Role]

	if name, ok := present(patch.Name); ok && name != existing.Name {
		if domain.IsBuiltInRole(existing.Name) {
			checks = append(checks, rejected[domain.Role](FieldName, "Built-in role cannot be renamed"))
		} else {
			checks = append(checks, unique(v.roles, FieldName, name, existing.ID, roleNameRule, func(r *domain.Role, s string) { r.Name = s }))
		}
	}
	if description, ok := present(patch.Description); ok {
		checks = append(checks, formatted(FieldDescription, description, descriptionRule, func(r *domain.Role, s string) { r.Description = s }))
	}

	updated := *existing
	if err := evaluate(ctx, "role", &updated, checks); err != nil {
		return nil, err
	}
	if len(checks) > 0 {
		updated.UpdatedAt = v.now().UTC()
	}
	return &updated, nil
}

func (v *MutationValidator) passwordCheck(password string) fieldCheck[domain.User] {
	var hash string
	return fieldCheck[domain.User]{
		run: func(context.Context) (*domain.ValidationError, error) {
			if utf8.RuneCountInString(password) < v.minPasswordLen {
				return &domain.ValidationError{
					Field:   FieldPassword,
					Message: fmt.Sprintf("Password must be at least %d characters long", v.minPasswordLen),
				}, nil
			}
			h, err := v.hasher.Hash(password)
			if err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			hash = h
			return nil, nil
		},
		apply: func(u *domain.User) { u.PasswordHash = hash },
	}
}

func (v *MutationValidator) roleCheck(roleName string) fieldCheck[domain.User] {
	var resolved string
	return fieldCheck[domain.User]{
		run: func(ctx context.Context) (*domain.ValidationError, error) {
			role, err := v.roles.FindByName(ctx, roleName)
			if errors.Is(err, domain.ErrNotFound) {
				return &domain.ValidationError{
					Field:   FieldRoleName,
					Message: "Role not found with name: " + roleName,
				}, nil
			}
			if err != nil {
				return nil, fmt.Errorf("resolve role %q: %w", roleName, err)
			}
			resolved = role.Name
			return nil, nil
		},
		apply: func(u *domain.User) { u.RoleName = resolved },
	}
}

// evaluate runs every check concurrently, then either applies all of them to
// target or returns the violations in check order.
func evaluate[T any](ctx context.Context, entity string, target *T, checks []fieldCheck[T]) error {
	results := make([]*domain.ValidationError, len(checks))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range checks {
		if c.run == nil {
			continue
		}
		g.Go(func() error {
			verr, err := c.run(gctx)
			if err != nil {
				return err
			}
			results[i] = verr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var errs domain.ValidationErrors
	for _, r := range results {
		if r != nil {
			errs = append(errs, *r)
			metrics.ValidationFailuresTotal.WithLabelValues(entity, r.Field).Inc()
		}
	}
	if len(errs) > 0 {
		return errs
	}

	for _, c := range checks {
		if c.apply != nil {
			c.apply(target)
		}
	}
	return nil
}

// formatted checks value against rule and assigns it when every check passed.
func formatted[T any](field, value, rule string, set func(*T, string)) fieldCheck[T] {
	return fieldCheck[T]{
		run: func(context.Context) (*domain.ValidationError, error) {
			return checkFormat(field, value, rule), nil
		},
		apply: func(t *T) { set(t, value) },
	}
}

func missing[T any](field string) fieldCheck[T] {
	return rejected[T](field, fieldLabel(field)+" is required")
}

// rejected always fails field with message.
func rejected[T any](field, message string) fieldCheck[T] {
	return fieldCheck[T]{
		run: func(context.Context) (*domain.ValidationError, error) {
			return &domain.ValidationError{Field: field, Message: message}, nil
		},
	}
}

func required[T any](field, value, rule string, set func(*T, string)) fieldCheck[T] {
	v, ok := present(value)
	if !ok {
		return missing[T](field)
	}
	return formatted(field, v, rule, set)
}

func requiredUnique[T any](oracle ports.UniquenessOracle, field, value, rule string, set func(*T, string)) fieldCheck[T] {
	v, ok := present(value)
	if !ok {
		return missing[T](field)
	}
	return unique(oracle, field, v, "", rule, set)
}

// unique checks the format of value and, when it is well formed, asks oracle
// whether another record holds it.
func unique[T any](oracle ports.UniquenessOracle, field, value, excludeID, rule string, set func(*T, string)) fieldCheck[T] {
	return fieldCheck[T]{
		run: func(ctx context.Context) (*domain.ValidationError, error) {
			if verr := checkFormat(field, value, rule); verr != nil {
				return verr, nil
			}
			taken, err := oracle.Taken(ctx, field, value, excludeID)
			if err != nil {
				return nil, fmt.Errorf("check %s uniqueness: %w", field, err)
			}
			if taken {
				return &domain.ValidationError{Field: field, Message: fieldLabel(field) + " already exists"}, nil
			}
			return nil, nil
		},
		apply: func(t *T) { set(t, value) },
	}
}

// present returns the trimmed value and whether it is non-blank.
func present(value string) (string, bool) {
	v := strings.TrimSpace(value)
	return v, v != ""
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// fieldLabel turns "username" into "Username" and "roleName" into "Role name".
func fieldLabel(field string) string {
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteString(strings.ToUpper(string(r)))
		case r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
