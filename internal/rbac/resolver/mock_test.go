package resolver

import (
	"context"
	"io"
	"log/slog"
	"time"

	"crmrbac/internal/rbac/config"
	"crmrbac/internal/rbac/model"

	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) FindUsersByRole(ctx context.Context, roleID string) ([]*model.User, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *mockUserRepo) CountUsersByRole(ctx context.Context, roleID string) (int64, error) {
	args := m.Called(ctx, roleID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) UpdateUserRole(ctx context.Context, userID, roleID string) error {
	args := m.Called(ctx, userID, roleID)
	return args.Error(0)
}

func (m *mockUserRepo) SaveEffectivePermissions(ctx context.Context, userID string, codes []string, computedAt time.Time) error {
	args := m.Called(ctx, userID, codes, computedAt)
	return args.Error(0)
}

func (m *mockUserRepo) InvalidateEffectivePermissions(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockUserRepo) SetOverride(ctx context.Context, userID string, override model.Override) error {
	args := m.Called(ctx, userID, override)
	return args.Error(0)
}

func (m *mockUserRepo) RemoveOverride(ctx context.Context, userID, permissionCode string) error {
	args := m.Called(ctx, userID, permissionCode)
	return args.Error(0)
}

func (m *mockUserRepo) SetTeam(ctx context.Context, userID, teamID string, isTeamLead bool) error {
	args := m.Called(ctx, userID, teamID, isTeamLead)
	return args.Error(0)
}

func (m *mockUserRepo) FindDirectReports(ctx context.Context, managerID string) ([]string, error) {
	args := m.Called(ctx, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockRoleRepo struct {
	mock.Mock
}

func (m *mockRoleRepo) FindRoleByID(ctx context.Context, id string) (*model.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *mockRoleRepo) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *mockRoleRepo) CreateRole(ctx context.Context, role *model.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *mockRoleRepo) UpdateRole(ctx context.Context, role *model.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *mockRoleRepo) DeleteRole(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRoleRepo) ListRoles(ctx context.Context, filter model.RoleFilter) ([]*model.Role, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Role), args.Error(1)
}

func (m *mockRoleRepo) CountCustomRoles(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRoleRepo) IncUsersCount(ctx context.Context, id string, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

type mockPermissionRepo struct {
	mock.Mock
}

func (m *mockPermissionRepo) ListPermissions(ctx context.Context) ([]*model.Permission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Permission), args.Error(1)
}

func (m *mockPermissionRepo) FindPermissionByCode(ctx context.Context, code string) (*model.Permission, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Permission), args.Error(1)
}

func (m *mockPermissionRepo) FindPermissionsByCodes(ctx context.Context, codes []string) ([]*model.Permission, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Permission), args.Error(1)
}

func (m *mockPermissionRepo) SeedPermissions(ctx context.Context, perms []*model.Permission) error {
	args := m.Called(ctx, perms)
	return args.Error(0)
}

func (m *mockPermissionRepo) CountPermissionsByCategory(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

type mockTeamRepo struct {
	mock.Mock
}

func (m *mockTeamRepo) FindTeamByID(ctx context.Context, id string) (*model.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *mockTeamRepo) FindTeamByName(ctx context.Context, name string) (*model.Team, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *mockTeamRepo) CreateTeam(ctx context.Context, team *model.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *mockTeamRepo) AddMember(ctx context.Context, teamID, userID string) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

func (m *mockTeamRepo) RemoveMember(ctx context.Context, teamID, userID string) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

func (m *mockTeamRepo) SetTeamLead(ctx context.Context, teamID, userID string) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

type mockResourceRepo struct {
	mock.Mock
}

func (m *mockResourceRepo) GetOwnership(ctx context.Context, collection, resourceID string) (*model.Ownership, error) {
	args := m.Called(ctx, collection, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ownership), args.Error(1)
}

type resolverMocks struct {
	users     *mockUserRepo
	roles     *mockRoleRepo
	perms     *mockPermissionRepo
	teams     *mockTeamRepo
	resources *mockResourceRepo
}

func testConfig() *config.Config {
	return &config.Config{
		PermissionCacheTTL:    time.Hour,
		PermissionCacheSize:   100,
		MaxCustomRoles:        50,
		DefaultRoleName:       "user",
		MaxHierarchyDepth:     5,
		HierarchySafetyFactor: 2,
	}
}

func newTestResolver(cfg *config.Config) (*Resolver, *resolverMocks) {
	mocks := &resolverMocks{
		users:     new(mockUserRepo),
		roles:     new(mockRoleRepo),
		perms:     new(mockPermissionRepo),
		teams:     new(mockTeamRepo),
		resources: new(mockResourceRepo),
	}
	registry := NewOwnershipRegistry()
	RegisterDefaultStrategies(registry, mocks.resources)

	cache := NewPermissionCache(cfg.PermissionCacheSize, cfg.PermissionCacheTTL)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	res := New(mocks.users, mocks.roles, mocks.perms, mocks.teams, registry, cache, cfg, logger)
	return res, mocks
}
