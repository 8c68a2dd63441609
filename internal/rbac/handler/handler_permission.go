package handler

import (
	"errors"
	"net/http"
	"strconv"

	"crmrbac/internal/rbac/model"
	"crmrbac/internal/rbac/resolver"
	"crmrbac/internal/rbac/service"

	"github.com/labstack/echo/v4"
)

// PostPermissionCheck handles POST /permissions/check
func (h *Handler) PostPermissionCheck(c echo.Context) error {
	if _, err := h.extractCallerID(c); err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.CheckPermissionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err)
	}

	allowed, err := h.Resolver.CheckPermissionByID(c.Request().Context(), req.UserID, req.PermissionCode, req.ResourceID, req.CheckOwnership)
	if err != nil {
		// Fail closed: the caller sees a deny, the error stays server-side.
		c.Logger().Error(err)
		return c.JSON(http.StatusOK, map[string]any{
			"allowed": false,
			"user_id": req.UserID,
			"code":    req.PermissionCode,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"allowed": allowed,
		"user_id": req.UserID,
		"code":    req.PermissionCode,
	})
}

// PostPermissionCheckMultiple handles POST /permissions/check-multiple
func (h *Handler) PostPermissionCheckMultiple(c echo.Context) error {
	if _, err := h.extractCallerID(c); err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.CheckMultipleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err)
	}

	allowed, err := h.Resolver.CheckMultipleByID(c.Request().Context(), req.UserID, req.PermissionCodes, req.RequireAll)
	if err != nil {
		c.Logger().Error(err)
		allowed = false
	}
	return c.JSON(http.StatusOK, map[string]any{
		"allowed":     allowed,
		"user_id":     req.UserID,
		"require_all": req.RequireAll,
	})
}

// PostPermissionValidate handles POST /permissions/validate
func (h *Handler) PostPermissionValidate(c echo.Context) error {
	if _, err := h.extractCallerID(c); err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.ValidateCodesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err)
	}

	result, err := h.Resolver.ValidatePermissionCodes(c.Request().Context(), req.Codes)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, result)
}

// GetPermissions handles GET /permissions
func (h *Handler) GetPermissions(c echo.Context) error {
	if _, err := h.extractCallerID(c); err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	perms, counts, err := h.Resolver.ListCatalog(c.Request().Context())
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"permissions":     perms,
		"category_counts": counts,
		"total":           len(perms),
	})
}

// GetUserPermissions handles GET /users/:id/permissions
func (h *Handler) GetUserPermissions(c echo.Context) error {
	if _, err := h.extractCallerID(c); err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	includeDetails := false
	if d := c.QueryParam("include_details"); d != "" {
		includeDetails, _ = strconv.ParseBool(d)
	}

	info, err := h.Resolver.GetUserPermissions(c.Request().Context(), c.Param("id"), includeDetails)
	if err != nil {
		if errors.Is(err, resolver.ErrUserNotFound) {
			code, body := httpError(service.ErrNotFound)
			return c.JSON(code, body)
		}
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, info)
}

// PostUserOverride handles POST /users/:id/overrides
func (h *Handler) PostUserOverride(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.SetOverrideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err)
	}

	if err := h.Service.SetOverride(c.Request().Context(), callerID, c.Param("id"), req); err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.StatusResponse{Status: "success"})
}

// DeleteUserOverride handles DELETE /users/:id/overrides/:code
func (h *Handler) DeleteUserOverride(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	if err := h.Service.RemoveOverride(c.Request().Context(), callerID, c.Param("id"), c.Param("code")); err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.StatusResponse{Status: "success"})
}

// PostUserPermissionsRecompute handles POST /users/:id/permissions/recompute
func (h *Handler) PostUserPermissionsRecompute(c echo.Context) error {
	if _, err := h.extractCallerID(c); err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	codes, err := h.Resolver.ComputeEffectivePermissions(c.Request().Context(), c.Param("id"), true)
	if err != nil {
		if errors.Is(err, resolver.ErrUserNotFound) {
			code, body := httpError(service.ErrNotFound)
			return c.JSON(code, body)
		}
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"effective_permissions": codes,
		"count":                 len(codes),
	})
}
