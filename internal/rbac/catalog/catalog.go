// Package catalog holds the static permission catalog seed and the
// bootstrap definitions of the three system roles.
package catalog

import (
	"context"
	"fmt"

	"crmrbac/internal/rbac/model"
	"crmrbac/internal/rbac/repository"
)

// Seed upserts the embedded catalog into the permissions collection and
// creates the system roles if they do not exist yet. Idempotent; called
// once at process start.
func Seed(ctx context.Context, perms repository.PermissionRepository, roles repository.RoleRepository) error {
	entries, err := Load()
	if err != nil {
		return err
	}
	if err := perms.SeedPermissions(ctx, entries); err != nil {
		return fmt.Errorf("failed to seed permission catalog: %w", err)
	}

	for _, role := range BuildSystemRoles(entries) {
		existing, err := roles.FindRoleByName(ctx, role.Name)
		if err != nil {
			return fmt.Errorf("failed to look up system role %s: %w", role.Name, err)
		}
		if existing != nil {
			continue
		}
		if err := roles.CreateRole(ctx, role); err != nil {
			return fmt.Errorf("failed to seed system role %s: %w", role.Name, err)
		}
	}
	return nil
}

// BuildSystemRoles derives the bootstrap system roles from the catalog.
// System roles are never mutated or deleted through the management API.
func BuildSystemRoles(perms []*model.Permission) []*model.Role {
	allGrants := make([]model.RolePermission, 0, len(perms))
	adminGrants := make([]model.RolePermission, 0, len(perms))
	for _, p := range perms {
		allGrants = append(allGrants, model.RolePermission{PermissionCode: p.Code, Granted: true})
		// Catalog administration stays with super admins
		if p.Code == "catalog.manage" {
			continue
		}
		adminGrants = append(adminGrants, model.RolePermission{PermissionCode: p.Code, Granted: true})
	}

	userGrants := make([]model.RolePermission, 0, len(userRoleCodes))
	for _, code := range userRoleCodes {
		userGrants = append(userGrants, model.RolePermission{PermissionCode: code, Granted: true})
	}

	return []*model.Role{
		{
			Name:        model.RoleNameSuperAdmin,
			DisplayName: "Super Admin",
			Description: "Full access to every permission in the catalog",
			Type:        model.RoleTypeSystem,
			IsActive:    true,
			Permissions: allGrants,
			IsDeletable: false,
		},
		{
			Name:        model.RoleNameAdmin,
			DisplayName: "Admin",
			Description: "Organization administration without catalog edits",
			Type:        model.RoleTypeSystem,
			IsActive:    true,
			Permissions: adminGrants,
			IsDeletable: false,
		},
		{
			Name:        model.RoleNameUser,
			DisplayName: "User",
			Description: "Own-record access for sales agents",
			Type:        model.RoleTypeSystem,
			IsActive:    true,
			Permissions: userGrants,
			IsDeletable: false,
		},
	}
}

// userRoleCodes is the default grant set of the seeded "user" role.
var userRoleCodes = []string{
	"lead.create",
	"lead.read_own",
	"lead.update_own",
	"lead.export_own",
	"lead.change_stage",
	"contact.create",
	"contact.read_own",
	"contact.update_own",
	"batch.read_own",
	"campaign.read_own",
	"message.send",
	"message.read_own",
	"activity.create",
	"activity.read_own",
	"activity.update_own",
	"activity.delete_own",
	"note.create",
	"note.read",
	"note.update_own",
	"note.delete_own",
	"file.upload",
	"file.download",
	"report.view_own",
	"dashboard.view_own",
}
