package service

import (
	"context"
	"fmt"
	"time"

	"crmrbac/internal/rbac/model"

	"github.com/google/uuid"
)

// AssignRole moves a user onto a role: counters move via atomic $inc, an
// immutable assignment record is written, and the effective set is
// recomputed synchronously so the caller's next check reflects the new
// role immediately.
func (s *Service) AssignRole(ctx context.Context, callerID string, req model.AssignRoleReq) error {
	if callerID == "" {
		return ErrUnauthorized
	}

	user, err := s.Users.FindUserByID(ctx, req.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user %s", ErrNotFound, req.UserID)
	}

	role, err := s.Roles.FindRoleByID(ctx, req.RoleID)
	if err != nil {
		return err
	}
	if role == nil {
		return fmt.Errorf("%w: role %s", ErrNotFound, req.RoleID)
	}
	if !role.IsActive {
		return fmt.Errorf("%w: role %q is inactive", ErrBadRequest, role.Name)
	}

	return s.moveUserToRole(ctx, callerID, user, role)
}

// moveUserToRole is shared between AssignRole and forced role deletion.
func (s *Service) moveUserToRole(ctx context.Context, callerID string, user *model.User, role *model.Role) error {
	previousRoleID := user.RoleID

	if err := s.Users.UpdateUserRole(ctx, user.ID, role.ID); err != nil {
		return err
	}

	if previousRoleID != "" && previousRoleID != role.ID {
		if err := s.Roles.IncUsersCount(ctx, previousRoleID, -1); err != nil {
			return err
		}
	}
	if previousRoleID != role.ID {
		if err := s.Roles.IncUsersCount(ctx, role.ID, 1); err != nil {
			return err
		}
	}

	if err := s.Assignments.RevokeActiveAssignments(ctx, user.ID, callerID); err != nil {
		return err
	}
	now := time.Now()
	assignment := &model.RoleAssignment{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		RoleID:     role.ID,
		RoleName:   role.Name,
		AssignedBy: callerID,
		AssignedAt: now,
		Status:     model.AssignmentStatusActive,
	}
	if err := s.Assignments.CreateAssignment(ctx, assignment); err != nil {
		return err
	}

	// Synchronous forced recompute: read-your-writes for the initiating
	// request.
	s.Resolver.ClearUserCache(user.ID)
	if _, err := s.Resolver.ComputeEffectivePermissions(ctx, user.ID, true); err != nil {
		return err
	}

	s.recordAudit(model.AuditRoleAssigned, "user", user.ID, callerID,
		map[string]any{"role_id": previousRoleID},
		map[string]any{"role_id": role.ID, "role_name": role.Name})
	s.logger.Info("role assigned", "user", user.ID, "role", role.Name, "caller", callerID)
	return nil
}

// SetOverride writes a per-user grant/denial, replacing any prior
// override for the same code. The user's cached set is invalidated so the
// next check recomputes.
func (s *Service) SetOverride(ctx context.Context, callerID, userID string, req model.SetOverrideReq) error {
	if callerID == "" {
		return ErrUnauthorized
	}

	user, err := s.Users.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	result, err := s.Resolver.ValidatePermissionCodes(ctx, []string{req.PermissionCode})
	if err != nil {
		return err
	}
	if !result.AllValid {
		return fmt.Errorf("%w: %s", ErrUnknownPermission, req.PermissionCode)
	}

	override := model.Override{
		PermissionCode: req.PermissionCode,
		Granted:        req.Granted,
		GrantedBy:      callerID,
		GrantedAt:      time.Now(),
		ExpiresAt:      req.ExpiresAt,
		Reason:         req.Reason,
	}
	if err := s.Users.SetOverride(ctx, userID, override); err != nil {
		return err
	}

	s.invalidateUserPermissions(ctx, userID)

	s.recordAudit(model.AuditOverrideSet, "user", userID, callerID, nil, override)
	s.logger.Info("override set", "user", userID, "code", req.PermissionCode, "granted", req.Granted, "caller", callerID)
	return nil
}

func (s *Service) RemoveOverride(ctx context.Context, callerID, userID, permissionCode string) error {
	if callerID == "" {
		return ErrUnauthorized
	}
	if permissionCode == "" {
		return ErrBadRequest
	}

	user, err := s.Users.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	if err := s.Users.RemoveOverride(ctx, userID, permissionCode); err != nil {
		return err
	}

	s.invalidateUserPermissions(ctx, userID)

	s.recordAudit(model.AuditOverrideRemoved, "user", userID, callerID,
		map[string]any{"permission_code": permissionCode}, nil)
	s.logger.Info("override removed", "user", userID, "code", permissionCode, "caller", callerID)
	return nil
}

func (s *Service) GetRoleAssignmentHistory(ctx context.Context, callerID, userID string, page, size int) ([]*model.RoleAssignment, int64, error) {
	if callerID == "" {
		return nil, 0, ErrUnauthorized
	}
	if userID == "" {
		return nil, 0, ErrBadRequest
	}
	return s.Assignments.FindAssignmentsByUser(ctx, userID, page, size)
}

// invalidateUserPermissions marks the persisted set stale and drops the
// process-cache entry; the next check triggers a forced recompute.
func (s *Service) invalidateUserPermissions(ctx context.Context, userID string) {
	if err := s.Users.InvalidateEffectivePermissions(ctx, userID); err != nil {
		s.logger.Warn("failed to invalidate persisted permissions", "user", userID, "error", err)
	}
	s.Resolver.ClearUserCache(userID)
}
