package migration

import (
	"context"
	"errors"
	"fmt"

	"result-hub/internal/authz"
	"result-hub/internal/domain/entities"
	domainerrors "result-hub/internal/domain/errors"
	"result-hub/internal/domain/repositories"
	"result-hub/internal/logger"
)

// defaultGrants are installed on first start, before any policy exists.
var defaultGrants = []struct {
	role        entities.RoleName
	object, act string
}{
	{entities.RoleUser, "roles", "read"},
	{entities.RoleModerator, "roles", "create"},
	{entities.RoleAdmin, "roles", "delete"},
	{entities.RoleAdmin, "metrics", "read"},
}

var defaultInheritance = [][2]entities.RoleName{
	{entities.RoleModerator, entities.RoleUser},
	{entities.RoleAdmin, entities.RoleModerator},
}

var roleDescriptions = map[entities.RoleName]string{
	entities.RoleUser:      "Default role for registered users",
	entities.RoleModerator: "Can manage roles",
	entities.RoleAdmin:     "Full access",
}

// SeedDefaults creates the built-in roles and, when the policy table is empty,
// their default grants. It is safe to run on every start.
func SeedDefaults(ctx context.Context, roles repositories.RoleRepository, policy *authz.Policy, log *logger.Logger) error {
	created := 0
	for _, name := range entities.KnownRoleNames() {
		role := &entities.Role{Name: name, Description: roleDescriptions[name]}
		err := roles.Create(ctx, role)
		if errors.Is(err, domainerrors.ErrDuplicate) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
		created++
	}

	grants := 0
	if policy != nil && policy.Empty() {
		for _, g := range defaultGrants {
			if err := policy.Grant(g.role, g.object, g.act); err != nil {
				return fmt.Errorf("seed grant %s %s %s: %w", g.role, g.object, g.act, err)
			}
			grants++
		}
		for _, pair := range defaultInheritance {
			if err := policy.Inherit(pair[0], pair[1]); err != nil {
				return fmt.Errorf("seed inheritance %s -> %s: %w", pair[0], pair[1], err)
			}
		}
	}

	if log != nil {
		log.Info(logger.EventSystemStart, "Seed completed", map[string]interface{}{
			"roles_created":  created,
			"grants_created": grants,
		})
	}
	return nil
}
