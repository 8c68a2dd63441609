package handler

import (
	"net/http"
	"strconv"

	"crmrbac/internal/rbac/model"

	"github.com/labstack/echo/v4"
)

// PostRole handles POST /roles
func (h *Handler) PostRole(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.CreateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err)
	}

	role, err := h.Service.CreateRole(c.Request().Context(), callerID, req)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusCreated, role)
}

// GetRoles handles GET /roles
func (h *Handler) GetRoles(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	filter := model.RoleFilter{
		Type: c.QueryParam("type"),
		Name: c.QueryParam("name"),
	}
	if active := c.QueryParam("is_active"); active != "" {
		v, err := strconv.ParseBool(active)
		if err != nil {
			return c.JSON(http.StatusBadRequest, model.ErrorResponse{
				Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid is_active"},
			})
		}
		filter.IsActive = &v
	}

	roles, err := h.Service.ListRoles(c.Request().Context(), callerID, filter)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, roles)
}

// GetRole handles GET /roles/:id
func (h *Handler) GetRole(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	role, err := h.Service.GetRole(c.Request().Context(), callerID, c.Param("id"))
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, role)
}

// PutRole handles PUT /roles/:id
func (h *Handler) PutRole(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.UpdateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err)
	}

	role, err := h.Service.UpdateRole(c.Request().Context(), callerID, c.Param("id"), req)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, role)
}

// DeleteRole handles DELETE /roles/:id?force=true
func (h *Handler) DeleteRole(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	force := false
	if f := c.QueryParam("force"); f != "" {
		force, _ = strconv.ParseBool(f)
	}

	if err := h.Service.DeleteRole(c.Request().Context(), callerID, c.Param("id"), force); err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.StatusResponse{Status: "success"})
}

// PostRoleClone handles POST /roles/:id/clone
func (h *Handler) PostRoleClone(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.CloneRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err)
	}

	clone, err := h.Service.CloneRole(c.Request().Context(), callerID, c.Param("id"), req)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusCreated, clone)
}

// PostRoleAssignment handles POST /roles/assign
func (h *Handler) PostRoleAssignment(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.AssignRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err)
	}

	if err := h.Service.AssignRole(c.Request().Context(), callerID, req); err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.StatusResponse{Status: "success"})
}

// GetRoleHistory handles GET /users/:id/role_history
func (h *Handler) GetRoleHistory(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))

	records, total, err := h.Service.GetRoleAssignmentHistory(c.Request().Context(), callerID, c.Param("id"), page, size)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"items": records,
		"total": total,
	})
}
