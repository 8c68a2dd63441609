package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crmrbac/internal/rbac/model"
	"crmrbac/internal/rbac/repository"
)

func (s *Service) CreateRole(ctx context.Context, callerID string, req model.CreateRoleReq) (*model.Role, error) {
	req.Name = strings.ToLower(strings.TrimSpace(req.Name))
	if callerID == "" {
		return nil, ErrUnauthorized
	}
	if req.Name == "" {
		return nil, ErrBadRequest
	}

	// Custom role ceiling
	count, err := s.Roles.CountCustomRoles(ctx)
	if err != nil {
		return nil, err
	}
	if count >= int64(s.Cfg.MaxCustomRoles) {
		return nil, fmt.Errorf("%w: limit is %d", ErrQuotaExceeded, s.Cfg.MaxCustomRoles)
	}

	// All-or-nothing: every referenced code must exist in the catalog
	if err := s.validatePermissionList(ctx, req.Permissions); err != nil {
		return nil, err
	}

	role := &model.Role{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
		Type:        model.RoleTypeCustom,
		IsActive:    true,
		Permissions: req.Permissions,
		MaxTeamSize: req.MaxTeamSize,
		UsersCount:  0,
		IsDeletable: true,
		CreatedBy:   callerID,
		UpdatedBy:   callerID,
	}

	if err := s.Roles.CreateRole(ctx, role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: role name %q already exists", ErrConflict, req.Name)
		}
		return nil, err
	}

	s.recordAudit(model.AuditRoleCreated, "role", role.ID, callerID, nil, role)
	s.logger.Info("role created", "role", role.Name, "caller", callerID)
	return role, nil
}

func (s *Service) GetRole(ctx context.Context, callerID, roleID string) (*model.Role, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}
	role, err := s.Roles.FindRoleByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("%w: role %s", ErrNotFound, roleID)
	}
	return role, nil
}

func (s *Service) ListRoles(ctx context.Context, callerID string, filter model.RoleFilter) ([]*model.Role, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}
	return s.Roles.ListRoles(ctx, filter)
}

// UpdateRole rejects system roles outright. After a permission-list
// change, every current holder is recomputed eagerly so no stale decision
// is served from a cache believed fresh.
func (s *Service) UpdateRole(ctx context.Context, callerID, roleID string, req model.UpdateRoleReq) (*model.Role, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}

	role, err := s.Roles.FindRoleByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("%w: role %s", ErrNotFound, roleID)
	}
	if role.Type == model.RoleTypeSystem {
		return nil, ErrSystemRole
	}

	permissionsChanged := false
	if req.Permissions != nil {
		if err := s.validatePermissionList(ctx, req.Permissions); err != nil {
			return nil, err
		}
		permissionsChanged = true
	}

	before := *role

	if req.DisplayName != nil {
		role.DisplayName = *req.DisplayName
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.IsActive != nil {
		role.IsActive = *req.IsActive
	}
	if req.Permissions != nil {
		role.Permissions = req.Permissions
	}
	if req.MaxTeamSize != nil {
		role.MaxTeamSize = req.MaxTeamSize
	}
	role.UpdatedBy = callerID

	if err := s.Roles.UpdateRole(ctx, role); err != nil {
		return nil, err
	}

	s.recordAudit(model.AuditRoleUpdated, "role", role.ID, callerID, &before, role)

	if permissionsChanged || req.IsActive != nil {
		if err := s.resyncRoleHolders(ctx, role.ID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("role updated", "role", role.Name, "caller", callerID)
	return role, nil
}

// DeleteRole refuses roles that still have holders unless forced, in
// which case every holder is moved to the configured default role before
// the role document is removed. A role is never deleted while users still
// reference it.
func (s *Service) DeleteRole(ctx context.Context, callerID, roleID string, force bool) error {
	if callerID == "" {
		return ErrUnauthorized
	}
	if !s.Cfg.AllowRoleDeletion {
		return fmt.Errorf("%w: role deletion is disabled", ErrForbidden)
	}

	role, err := s.Roles.FindRoleByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return fmt.Errorf("%w: role %s", ErrNotFound, roleID)
	}
	if role.Type == model.RoleTypeSystem || !role.IsDeletable {
		return ErrSystemRole
	}

	// users_count is an admin hint; deletion safety re-counts holders.
	holders, err := s.Users.CountUsersByRole(ctx, roleID)
	if err != nil {
		return err
	}
	if holders > 0 {
		if !force {
			return fmt.Errorf("%w: %d users still assigned", ErrRoleInUse, holders)
		}

		defaultRole, err := s.Roles.FindRoleByName(ctx, s.Cfg.DefaultRoleName)
		if err != nil {
			return err
		}
		if defaultRole == nil {
			return fmt.Errorf("%w: default role %q", ErrNotFound, s.Cfg.DefaultRoleName)
		}
		if defaultRole.ID == roleID {
			return fmt.Errorf("%w: cannot force-delete the default role", ErrBadRequest)
		}

		users, err := s.Users.FindUsersByRole(ctx, roleID)
		if err != nil {
			return err
		}
		for _, u := range users {
			if err := s.moveUserToRole(ctx, callerID, u, defaultRole); err != nil {
				return err
			}
		}
	}

	if err := s.Roles.DeleteRole(ctx, roleID); err != nil {
		return err
	}

	s.recordAudit(model.AuditRoleDeleted, "role", role.ID, callerID, role, nil)
	s.logger.Info("role deleted", "role", role.Name, "forced", force, "caller", callerID)
	return nil
}

// CloneRole copies the permission list and capability flags into a new
// custom role. Clones are always deletable, even when the source is a
// system role.
func (s *Service) CloneRole(ctx context.Context, callerID, sourceRoleID string, req model.CloneRoleReq) (*model.Role, error) {
	req.Name = strings.ToLower(strings.TrimSpace(req.Name))
	if callerID == "" {
		return nil, ErrUnauthorized
	}
	if req.Name == "" {
		return nil, ErrBadRequest
	}

	source, err := s.Roles.FindRoleByID(ctx, sourceRoleID)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("%w: role %s", ErrNotFound, sourceRoleID)
	}

	count, err := s.Roles.CountCustomRoles(ctx)
	if err != nil {
		return nil, err
	}
	if count >= int64(s.Cfg.MaxCustomRoles) {
		return nil, fmt.Errorf("%w: limit is %d", ErrQuotaExceeded, s.Cfg.MaxCustomRoles)
	}

	perms := make([]model.RolePermission, len(source.Permissions))
	copy(perms, source.Permissions)

	clone := &model.Role{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
		Type:        model.RoleTypeCustom,
		IsActive:    true,
		Permissions: perms,
		MaxTeamSize: source.MaxTeamSize,
		UsersCount:  0,
		IsDeletable: true,
		CreatedBy:   callerID,
		UpdatedBy:   callerID,
	}

	if err := s.Roles.CreateRole(ctx, clone); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: role name %q already exists", ErrConflict, req.Name)
		}
		return nil, err
	}

	s.recordAudit(model.AuditRoleCloned, "role", clone.ID, callerID, source, clone)
	s.logger.Info("role cloned", "source", source.Name, "clone", clone.Name, "caller", callerID)
	return clone, nil
}

// validatePermissionList rejects the whole list if any code is unknown.
func (s *Service) validatePermissionList(ctx context.Context, perms []model.RolePermission) error {
	codes := make([]string, 0, len(perms))
	for _, p := range perms {
		codes = append(codes, p.PermissionCode)
	}
	result, err := s.Resolver.ValidatePermissionCodes(ctx, codes)
	if err != nil {
		return err
	}
	if !result.AllValid {
		return fmt.Errorf("%w: %s", ErrUnknownPermission, strings.Join(result.Invalid, ", "))
	}
	return nil
}

// resyncRoleHolders forces a recompute for every user currently holding
// the role.
func (s *Service) resyncRoleHolders(ctx context.Context, roleID string) error {
	users, err := s.Users.FindUsersByRole(ctx, roleID)
	if err != nil {
		return err
	}
	for _, u := range users {
		s.Resolver.ClearUserCache(u.ID)
		if _, err := s.Resolver.ComputeEffectivePermissions(ctx, u.ID, true); err != nil {
			return fmt.Errorf("resync permissions for user %s: %w", u.ID, err)
		}
	}
	return nil
}
