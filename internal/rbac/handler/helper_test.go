package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"

	"crmrbac/internal/rbac/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
)

func setupServer() *echo.Echo {
	return echo.New()
}

func performRequest(e *echo.Echo, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var bodyReader *strings.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		bodyReader = strings.NewReader(string(b))
	} else {
		bodyReader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type mockService struct {
	mock.Mock
}

func (m *mockService) CreateRole(ctx context.Context, callerID string, req model.CreateRoleReq) (*model.Role, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *mockService) GetRole(ctx context.Context, callerID, roleID string) (*model.Role, error) {
	args := m.Called(ctx, callerID, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *mockService) ListRoles(ctx context.Context, callerID string, filter model.RoleFilter) ([]*model.Role, error) {
	args := m.Called(ctx, callerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Role), args.Error(1)
}

func (m *mockService) UpdateRole(ctx context.Context, callerID, roleID string, req model.UpdateRoleReq) (*model.Role, error) {
	args := m.Called(ctx, callerID, roleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *mockService) DeleteRole(ctx context.Context, callerID, roleID string, force bool) error {
	args := m.Called(ctx, callerID, roleID, force)
	return args.Error(0)
}

func (m *mockService) CloneRole(ctx context.Context, callerID, sourceRoleID string, req model.CloneRoleReq) (*model.Role, error) {
	args := m.Called(ctx, callerID, sourceRoleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *mockService) AssignRole(ctx context.Context, callerID string, req model.AssignRoleReq) error {
	args := m.Called(ctx, callerID, req)
	return args.Error(0)
}

func (m *mockService) SetOverride(ctx context.Context, callerID, userID string, req model.SetOverrideReq) error {
	args := m.Called(ctx, callerID, userID, req)
	return args.Error(0)
}

func (m *mockService) RemoveOverride(ctx context.Context, callerID, userID, permissionCode string) error {
	args := m.Called(ctx, callerID, userID, permissionCode)
	return args.Error(0)
}

func (m *mockService) GetRoleAssignmentHistory(ctx context.Context, callerID, userID string, page, size int) ([]*model.RoleAssignment, int64, error) {
	args := m.Called(ctx, callerID, userID, page, size)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.RoleAssignment), args.Get(1).(int64), args.Error(2)
}

func (m *mockService) CreateTeam(ctx context.Context, callerID string, req model.CreateTeamReq) (*model.Team, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *mockService) AddTeamMember(ctx context.Context, callerID, teamID, userID string) error {
	args := m.Called(ctx, callerID, teamID, userID)
	return args.Error(0)
}

func (m *mockService) RemoveTeamMember(ctx context.Context, callerID, teamID, userID string) error {
	args := m.Called(ctx, callerID, teamID, userID)
	return args.Error(0)
}

func (m *mockService) ChangeTeamLead(ctx context.Context, callerID, teamID, userID string) error {
	args := m.Called(ctx, callerID, teamID, userID)
	return args.Error(0)
}
