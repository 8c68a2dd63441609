package handler

import (
	"errors"
	"net/http"

	"crmrbac/internal/rbac/model"
	"crmrbac/internal/rbac/service"
)

// Helper to map service errors to HTTP status and body
func httpError(err error) (int, interface{}) {
	var code string
	var status int

	switch {
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
		code = "unauthorized"
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
		code = "forbidden"
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
		code = "conflict"
	case errors.Is(err, service.ErrSystemRole):
		status = http.StatusForbidden
		code = "system_role_immutable"
	case errors.Is(err, service.ErrRoleInUse):
		status = http.StatusConflict
		code = "role_in_use"
	case errors.Is(err, service.ErrQuotaExceeded):
		status = http.StatusUnprocessableEntity
		code = "quota_exceeded"
	case errors.Is(err, service.ErrUnknownPermission):
		status = http.StatusBadRequest
		code = "unknown_permission"
	case errors.Is(err, service.ErrTeamLead):
		status = http.StatusConflict
		code = "team_lead_reassignment_required"
	case errors.Is(err, service.ErrBadRequest):
		status = http.StatusBadRequest
		code = "bad_request"
	default:
		status = http.StatusInternalServerError
		code = "internal_error"
	}

	return status, model.ErrorResponse{
		Error: model.ErrorDetail{Code: code, Message: err.Error()},
	}
}
