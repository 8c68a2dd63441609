package handler

import (
	"net/http"

	"crmrbac/internal/rbac/model"

	"github.com/labstack/echo/v4"
)

// PostTeam handles POST /teams
func (h *Handler) PostTeam(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.CreateTeamReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err)
	}

	team, err := h.Service.CreateTeam(c.Request().Context(), callerID, req)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusCreated, team)
}

// PostTeamMember handles POST /teams/:id/members
func (h *Handler) PostTeamMember(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.TeamMemberReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err)
	}

	if err := h.Service.AddTeamMember(c.Request().Context(), callerID, c.Param("id"), req.UserID); err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.StatusResponse{Status: "success"})
}

// DeleteTeamMember handles DELETE /teams/:id/members/:user_id
func (h *Handler) DeleteTeamMember(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	if err := h.Service.RemoveTeamMember(c.Request().Context(), callerID, c.Param("id"), c.Param("user_id")); err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.StatusResponse{Status: "success"})
}

// PutTeamLead handles PUT /teams/:id/lead
func (h *Handler) PutTeamLead(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.TeamMemberReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err)
	}

	if err := h.Service.ChangeTeamLead(c.Request().Context(), callerID, c.Param("id"), req.UserID); err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.StatusResponse{Status: "success"})
}
