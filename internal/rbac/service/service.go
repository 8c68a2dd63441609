package service

import (
	"context"
	"errors"
	"log/slog"

	"crmrbac/internal/rbac/config"
	"crmrbac/internal/rbac/model"
	"crmrbac/internal/rbac/repository"
	"crmrbac/internal/rbac/resolver"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrBadRequest        = errors.New("bad request")
	ErrSystemRole        = errors.New("system roles cannot be modified or deleted")
	ErrRoleInUse         = errors.New("role still has assigned users")
	ErrQuotaExceeded     = errors.New("custom role quota exceeded")
	ErrUnknownPermission = errors.New("unknown permission code")
	ErrTeamLead          = errors.New("team lead must be reassigned first")
)

type RoleManagementService interface {
	CreateRole(ctx context.Context, callerID string, req model.CreateRoleReq) (*model.Role, error)
	GetRole(ctx context.Context, callerID, roleID string) (*model.Role, error)
	ListRoles(ctx context.Context, callerID string, filter model.RoleFilter) ([]*model.Role, error)
	UpdateRole(ctx context.Context, callerID, roleID string, req model.UpdateRoleReq) (*model.Role, error)
	DeleteRole(ctx context.Context, callerID, roleID string, force bool) error
	CloneRole(ctx context.Context, callerID, sourceRoleID string, req model.CloneRoleReq) (*model.Role, error)
	AssignRole(ctx context.Context, callerID string, req model.AssignRoleReq) error
	SetOverride(ctx context.Context, callerID, userID string, req model.SetOverrideReq) error
	RemoveOverride(ctx context.Context, callerID, userID, permissionCode string) error
	GetRoleAssignmentHistory(ctx context.Context, callerID, userID string, page, size int) ([]*model.RoleAssignment, int64, error)
	CreateTeam(ctx context.Context, callerID string, req model.CreateTeamReq) (*model.Team, error)
	AddTeamMember(ctx context.Context, callerID, teamID, userID string) error
	RemoveTeamMember(ctx context.Context, callerID, teamID, userID string) error
	ChangeTeamLead(ctx context.Context, callerID, teamID, userID string) error
}

type Service struct {
	Users       repository.UserRepository
	Roles       repository.RoleRepository
	Teams       repository.TeamRepository
	Assignments repository.AssignmentRepository
	Audit       repository.AuditRepository
	Resolver    *resolver.Resolver
	Cfg         *config.Config

	logger *slog.Logger
}

func NewService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	teams repository.TeamRepository,
	assignments repository.AssignmentRepository,
	audit repository.AuditRepository,
	res *resolver.Resolver,
	cfg *config.Config,
	logger *slog.Logger,
) *Service {
	return &Service{
		Users:       users,
		Roles:       roles,
		Teams:       teams,
		Assignments: assignments,
		Audit:       audit,
		Resolver:    res,
		Cfg:         cfg,
		logger:      logger,
	}
}
