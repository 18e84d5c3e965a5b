// Package seed loads default roles and sample users into an empty store.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/userhub/user-api/internal/core/domain"
	"github.com/userhub/user-api/internal/core/ports"
)

var defaultRoles = []ports.RolePatch{
	{Name: domain.RoleAdmin, Description: "Administrator - full system access"},
	{Name: domain.RoleUser, Description: "Regular user - basic access"},
	{Name: domain.RoleManager, Description: "Manager - limited administrative access"},
}

var sampleUsers = []ports.UserPatch{
	{Name: "Antonia", Username: "antonia", Email: "antonia@mail.com", Password: "password1", RoleName: domain.RoleUser},
	{Name: "Irene", Username: "irene", Email: "irene@mail.com", Password: "password2", RoleName: domain.RoleUser},
	{Name: "Lupe", Username: "lupe", Email: "lupe@mail.com", Password: "password3", RoleName: domain.RoleUser},
	{Name: "Miguel", Username: "miguel", Email: "miguel@mail.com", Password: "password4", RoleName: domain.RoleUser},
	{Name: "Elena", Username: "elena", Email: "elena@mail.com", Password: "password5", RoleName: domain.RoleUser},
	{Name: "Rosa", Username: "rosa", Email: "rosa@mail.com", Password: "password6", RoleName: domain.RoleAdmin},
	{Name: "Virginia", Username: "virginia", Email: "virginia@mail.com", Password: "password7", RoleName: domain.RoleUser},
	{Name: "Sergio", Username: "sergio", Email: "sergio@mail.com", Password: "password8", RoleName: domain.RoleUser},
	{Name: "Héctor", Username: "hector", Email: "hector@mail.com", Password: "password9", RoleName: domain.RoleAdmin},
	{Name: "Mario", Username: "mario", Email: "mario@mail.com", Password: "password10", RoleName: domain.RoleManager},
}

// Run creates the default roles when no role exists, then the sample users
// when no user exists. Each step is skipped independently.
func Run(ctx context.Context, roles ports.RoleService, users ports.UserService, log zerolog.Logger) error {
	existingRoles, err := roles.List(ctx)
	if err != nil {
		return fmt.Errorf("seed: list roles: %w", err)
	}
	if len(existingRoles) == 0 {
		for _, r := range defaultRoles {
			if _, err := roles.Create(ctx, r); err != nil {
				return fmt.Errorf("seed: role %s: %w", r.Name, err)
			}
		}
		log.Info().Int("count", len(defaultRoles)).Msg("seeded default roles")
	}

	existingUsers, err := users.List(ctx, ports.UserFilter{})
	if err != nil {
		return fmt.Errorf("seed: list users: %w", err)
	}
	if len(existingUsers) > 0 {
		return nil
	}
	for _, u := range sampleUsers {
		if _, err := users.Create(ctx, u); err != nil {
			return fmt.Errorf("seed: user %s: %w", u.Username, err)
		}
	}
	log.Info().Int("count", len(sampleUsers)).Msg("seeded sample users")
	return nil
}
