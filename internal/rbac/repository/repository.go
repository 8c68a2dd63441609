package repository

import (
	"context"
	"errors"
	"time"

	"crmrbac/internal/rbac/model"
)

var ErrDuplicate = errors.New("duplicate record")

// Lookups return (nil, nil) when the document does not exist. Callers on
// mutating paths translate that into a NotFound rejection; the resolver's
// read path treats it as deny.

type UserRepository interface {
	FindUserByID(ctx context.Context, id string) (*model.User, error)
	FindUsersByRole(ctx context.Context, roleID string) ([]*model.User, error)
	CountUsersByRole(ctx context.Context, roleID string) (int64, error)
	UpdateUserRole(ctx context.Context, userID, roleID string) error
	// SaveEffectivePermissions replaces the denormalized effective set in a
	// single update. Only the resolver calls this.
	SaveEffectivePermissions(ctx context.Context, userID string, codes []string, computedAt time.Time) error
	// InvalidateEffectivePermissions unsets the computation timestamp so the
	// next check recomputes.
	InvalidateEffectivePermissions(ctx context.Context, userID string) error
	SetOverride(ctx context.Context, userID string, override model.Override) error
	RemoveOverride(ctx context.Context, userID, permissionCode string) error
	SetTeam(ctx context.Context, userID, teamID string, isTeamLead bool) error
	FindDirectReports(ctx context.Context, managerID string) ([]string, error)
}

type RoleRepository interface {
	FindRoleByID(ctx context.Context, id string) (*model.Role, error)
	FindRoleByName(ctx context.Context, name string) (*model.Role, error)
	CreateRole(ctx context.Context, role *model.Role) error
	UpdateRole(ctx context.Context, role *model.Role) error
	DeleteRole(ctx context.Context, id string) error
	ListRoles(ctx context.Context, filter model.RoleFilter) ([]*model.Role, error)
	CountCustomRoles(ctx context.Context) (int64, error)
	// IncUsersCount applies an atomic single-document $inc; decrements are
	// guarded so the counter never goes negative.
	IncUsersCount(ctx context.Context, id string, delta int) error
}

type PermissionRepository interface {
	ListPermissions(ctx context.Context) ([]*model.Permission, error)
	FindPermissionByCode(ctx context.Context, code string) (*model.Permission, error)
	FindPermissionsByCodes(ctx context.Context, codes []string) ([]*model.Permission, error)
	SeedPermissions(ctx context.Context, perms []*model.Permission) error
	// CountPermissionsByCategory groups the catalog by category.
	CountPermissionsByCategory(ctx context.Context) (map[string]int64, error)
}

type TeamRepository interface {
	FindTeamByID(ctx context.Context, id string) (*model.Team, error)
	FindTeamByName(ctx context.Context, name string) (*model.Team, error)
	CreateTeam(ctx context.Context, team *model.Team) error
	AddMember(ctx context.Context, teamID, userID string) error
	RemoveMember(ctx context.Context, teamID, userID string) error
	SetTeamLead(ctx context.Context, teamID, userID string) error
}

type AssignmentRepository interface {
	CreateAssignment(ctx context.Context, assignment *model.RoleAssignment) error
	RevokeActiveAssignments(ctx context.Context, userID, revokedBy string) error
	FindAssignmentsByUser(ctx context.Context, userID string, page, size int) ([]*model.RoleAssignment, int64, error)
}

type AuditRepository interface {
	CreateAuditEntry(ctx context.Context, entry *model.AuditEntry) error
}

// ResourceRepository reads the ownership-relevant fields of CRM resource
// documents (leads, contacts, batches, campaigns).
type ResourceRepository interface {
	GetOwnership(ctx context.Context, collection, resourceID string) (*model.Ownership, error)
}
