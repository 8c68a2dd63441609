// Package resolver computes effective permission sets and answers
// point-in-time permission checks. Resolution order is strict:
// super admin, then overrides, then role grants, then deny.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"crmrbac/internal/rbac/config"
	"crmrbac/internal/rbac/model"
	"crmrbac/internal/rbac/repository"
)

var ErrUserNotFound = errors.New("user not found")

type Resolver struct {
	users  repository.UserRepository
	roles  repository.RoleRepository
	perms  repository.PermissionRepository
	teams  repository.TeamRepository
	owners *OwnershipRegistry
	cache  *PermissionCache
	cfg    *config.Config
	logger *slog.Logger
}

func New(
	users repository.UserRepository,
	roles repository.RoleRepository,
	perms repository.PermissionRepository,
	teams repository.TeamRepository,
	owners *OwnershipRegistry,
	cache *PermissionCache,
	cfg *config.Config,
	logger *slog.Logger,
) *Resolver {
	return &Resolver{
		users:  users,
		roles:  roles,
		perms:  perms,
		teams:  teams,
		owners: owners,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
	}
}

// CheckPermission answers whether user may perform the action identified
// by code. A missing user resolves to deny. Denied is a valid result, not
// an error; a non-nil error always comes with deny (fail closed) and is
// surfaced for logging by the caller.
func (r *Resolver) CheckPermission(ctx context.Context, user *model.User, code, resourceID string, checkOwnership bool) (bool, error) {
	if user == nil || code == "" {
		return false, nil
	}

	// 1. Super admin bypass: every action, including codes not yet in the
	// catalog.
	if user.IsSuperAdmin {
		return true, nil
	}

	// 2. Overrides are terminal in both directions; expired ones are inert.
	if ov, ok := user.ActiveOverride(code, time.Now()); ok {
		if !ov.Granted {
			return false, nil
		}
		return r.ownershipGate(ctx, user, code, resourceID, checkOwnership)
	}

	// 3. Role-derived effective set.
	effective, err := r.effectiveSet(ctx, user)
	if err != nil {
		return false, err
	}
	if _, ok := effective[code]; !ok {
		return false, nil
	}

	// 4. Ownership narrowing for own/team-scoped permissions.
	return r.ownershipGate(ctx, user, code, resourceID, checkOwnership)
}

// CheckPermissionByID loads the user and runs CheckPermission. A user
// that cannot be found is a deny, not an error; the account may simply
// not exist yet.
func (r *Resolver) CheckPermissionByID(ctx context.Context, userID, code, resourceID string, checkOwnership bool) (bool, error) {
	user, err := r.users.FindUserByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("check permission: %w", err)
	}
	return r.CheckPermission(ctx, user, code, resourceID, checkOwnership)
}

// CheckMultipleByID is CheckMultiplePermissions keyed by user ID.
func (r *Resolver) CheckMultipleByID(ctx context.Context, userID string, codes []string, requireAll bool) (bool, error) {
	user, err := r.users.FindUserByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("check permissions: %w", err)
	}
	return r.CheckMultiplePermissions(ctx, user, codes, requireAll)
}

// CheckMultiplePermissions evaluates each code independently through
// CheckPermission and combines with AND (requireAll) or OR. An empty code
// list is vacuously allowed.
func (r *Resolver) CheckMultiplePermissions(ctx context.Context, user *model.User, codes []string, requireAll bool) (bool, error) {
	if len(codes) == 0 {
		return true, nil
	}

	var firstErr error
	for _, code := range codes {
		allowed, err := r.CheckPermission(ctx, user, code, "", false)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if requireAll && !allowed {
			return false, firstErr
		}
		if !requireAll && allowed {
			return true, nil
		}
	}
	if requireAll {
		return true, nil
	}
	return false, firstErr
}

// ComputeEffectivePermissions recomputes and persists the effective set
// for a user. Without force, a live cache entry or a persisted snapshot
// younger than the TTL is returned as-is. The set is built to a local
// value and stored in a single replacement so a concurrent reader never
// observes half an override set.
func (r *Resolver) ComputeEffectivePermissions(ctx context.Context, userID string, force bool) ([]string, error) {
	if !force {
		if entry, ok := r.cache.Get(userID); ok {
			return entry.Codes, nil
		}
	}

	user, err := r.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("compute effective permissions: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("compute effective permissions: %w", ErrUserNotFound)
	}

	// Another process may have computed recently; trust its snapshot
	// instead of writing again.
	if !force && user.PermissionsLastComputed != nil && time.Since(*user.PermissionsLastComputed) < r.cfg.PermissionCacheTTL {
		codes := user.EffectivePermissions
		if codes == nil {
			codes = []string{}
		}
		r.cache.Put(userID, codes, *user.PermissionsLastComputed)
		return codes, nil
	}

	set := make(map[string]struct{})

	if user.IsSuperAdmin {
		// Every code currently in the catalog, so growing the catalog
		// extends super-admin power without a data migration.
		perms, err := r.perms.ListPermissions(ctx)
		if err != nil {
			return nil, fmt.Errorf("compute effective permissions: %w", err)
		}
		for _, p := range perms {
			set[p.Code] = struct{}{}
		}
	} else {
		if user.RoleID != "" {
			role, err := r.roles.FindRoleByID(ctx, user.RoleID)
			if err != nil {
				return nil, fmt.Errorf("compute effective permissions: %w", err)
			}
			if role != nil && role.IsActive {
				for _, code := range role.GrantedCodes() {
					set[code] = struct{}{}
				}
			}
		}

		// Active overrides win over role grants in both directions.
		now := time.Now()
		for i := range user.PermissionOverrides {
			ov := &user.PermissionOverrides[i]
			if ov.Expired(now) {
				continue
			}
			if ov.Granted {
				set[ov.PermissionCode] = struct{}{}
			} else {
				delete(set, ov.PermissionCode)
			}
		}
	}

	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	computedAt := time.Now()
	if err := r.users.SaveEffectivePermissions(ctx, userID, codes, computedAt); err != nil {
		return nil, fmt.Errorf("persist effective permissions: %w", err)
	}
	r.cache.Put(userID, codes, computedAt)

	return codes, nil
}

// GetUserPermissions builds the diagnostic payload: role summary, active
// overrides, effective set and counts.
func (r *Resolver) GetUserPermissions(ctx context.Context, userID string, includeDetails bool) (*model.UserPermissionsInfo, error) {
	user, err := r.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	effective, err := r.ComputeEffectivePermissions(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	info := &model.UserPermissionsInfo{
		UserID:                  user.ID,
		IsSuperAdmin:            user.IsSuperAdmin,
		EffectivePermissions:    effective,
		EffectiveCount:          len(effective),
		PermissionsLastComputed: user.PermissionsLastComputed,
	}

	now := time.Now()
	for _, ov := range user.PermissionOverrides {
		if ov.Expired(now) {
			continue
		}
		info.ActiveOverrideCount++
		if includeDetails {
			info.ActiveOverrides = append(info.ActiveOverrides, ov)
		}
	}

	if user.RoleID != "" {
		role, err := r.roles.FindRoleByID(ctx, user.RoleID)
		if err != nil {
			return nil, err
		}
		if role != nil {
			info.Role = &model.RoleSummary{
				ID:          role.ID,
				Name:        role.Name,
				DisplayName: role.DisplayName,
				Type:        role.Type,
			}
		}
	}

	return info, nil
}

// ListCatalog returns the full permission catalog together with
// per-category counts for the admin UI.
func (r *Resolver) ListCatalog(ctx context.Context) ([]*model.Permission, map[string]int64, error) {
	perms, err := r.perms.ListPermissions(ctx)
	if err != nil {
		return nil, nil, err
	}
	counts, err := r.perms.CountPermissionsByCategory(ctx)
	if err != nil {
		return nil, nil, err
	}
	return perms, counts, nil
}

// ValidatePermissionCodes splits codes into catalog-known and unknown.
func (r *Resolver) ValidatePermissionCodes(ctx context.Context, codes []string) (*model.CodeValidationResult, error) {
	result := &model.CodeValidationResult{
		Valid:   []string{},
		Invalid: []string{},
	}
	if len(codes) == 0 {
		result.AllValid = true
		return result, nil
	}

	known, err := r.perms.FindPermissionsByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}
	knownSet := make(map[string]bool, len(known))
	for _, p := range known {
		knownSet[p.Code] = true
	}

	for _, code := range codes {
		if knownSet[code] {
			result.Valid = append(result.Valid, code)
		} else {
			result.Invalid = append(result.Invalid, code)
		}
	}
	result.AllValid = len(result.Invalid) == 0
	return result, nil
}

func (r *Resolver) ClearUserCache(userID string) {
	r.cache.Remove(userID)
}

func (r *Resolver) ClearAllCache() {
	r.cache.Purge()
}

// effectiveSet returns the role-derived set for a check, materializing
// lazily: a fresh persisted snapshot is trusted, anything unset or stale
// triggers a synchronous recompute.
func (r *Resolver) effectiveSet(ctx context.Context, user *model.User) (map[string]struct{}, error) {
	if entry, ok := r.cache.Get(user.ID); ok {
		return entry.Set(), nil
	}

	if user.PermissionsLastComputed != nil && time.Since(*user.PermissionsLastComputed) < r.cfg.PermissionCacheTTL {
		entry := cacheEntry{Codes: user.EffectivePermissions, ComputedAt: *user.PermissionsLastComputed}
		r.cache.Put(user.ID, entry.Codes, entry.ComputedAt)
		return entry.Set(), nil
	}

	codes, err := r.ComputeEffectivePermissions(ctx, user.ID, true)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set, nil
}

// ownershipGate applies resource-level narrowing after a positive grant.
// Own-scoped codes require the caller to be assignee, co-assignee or
// creator; team-scoped codes require the resource to fall inside the
// caller's team visibility filter.
func (r *Resolver) ownershipGate(ctx context.Context, user *model.User, code, resourceID string, checkOwnership bool) (bool, error) {
	if !checkOwnership || resourceID == "" {
		return true, nil
	}

	perm, err := r.perms.FindPermissionByCode(ctx, code)
	if err != nil {
		return false, err
	}
	if perm == nil {
		// Granted via override for a code outside the catalog; nothing to
		// narrow against.
		return true, nil
	}

	switch perm.Scope {
	case model.PermScopeOwn:
		return r.owners.IsOwner(ctx, user.ID, resourceID, code)
	case model.PermScopeTeam:
		return r.teamAccess(ctx, user, code, resourceID)
	default:
		return true, nil
	}
}

// teamAccess checks team co-membership rather than direct ownership: the
// resource's assignee must be in the caller's team, or the caller created
// it.
func (r *Resolver) teamAccess(ctx context.Context, user *model.User, code, resourceID string) (bool, error) {
	ownership, err := r.owners.OwnershipFor(ctx, code, resourceID)
	if err != nil {
		return false, err
	}
	if ownership == nil {
		return false, nil
	}

	filter, err := r.TeamVisibilityFilter(ctx, user)
	if err != nil {
		return false, err
	}
	if filter.Includes(ownership.AssignedTo, ownership.CreatedBy) {
		return true, nil
	}
	for _, co := range ownership.CoAssignees {
		if filter.Includes(co, "") {
			return true, nil
		}
	}
	return false, nil
}
