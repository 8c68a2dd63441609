package router

import (
	"crmrbac/internal/rbac/handler"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func RegisterRoutes(e *echo.Echo, h *handler.Handler) {
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "authentication", "x-user-id"},
	}))

	// Health Check
	e.GET("/health", handler.HealthCheck)

	v1 := e.Group("/api/v1")
	v1.Use(handler.RequestIDMiddleware)

	// Permission catalog and checks
	v1.GET("/permissions", h.GetPermissions)
	v1.POST("/permissions/check", h.PostPermissionCheck)
	v1.POST("/permissions/check-multiple", h.PostPermissionCheckMultiple)
	v1.POST("/permissions/validate", h.PostPermissionValidate)

	// Role management
	v1.POST("/roles", h.PostRole)
	v1.GET("/roles", h.GetRoles)
	v1.GET("/roles/:id", h.GetRole)
	v1.PUT("/roles/:id", h.PutRole)
	v1.DELETE("/roles/:id", h.DeleteRole)
	v1.POST("/roles/:id/clone", h.PostRoleClone)
	v1.POST("/roles/assign", h.PostRoleAssignment)

	// Per-user permission state
	v1.GET("/users/:id/permissions", h.GetUserPermissions)
	v1.POST("/users/:id/permissions/recompute", h.PostUserPermissionsRecompute)
	v1.POST("/users/:id/overrides", h.PostUserOverride)
	v1.DELETE("/users/:id/overrides/:code", h.DeleteUserOverride)
	v1.GET("/users/:id/role_history", h.GetRoleHistory)

	// Team management
	v1.POST("/teams", h.PostTeam)
	v1.POST("/teams/:id/members", h.PostTeamMember)
	v1.DELETE("/teams/:id/members/:user_id", h.DeleteTeamMember)
	v1.PUT("/teams/:id/lead", h.PutTeamLead)
}
