package handler

import (
	"net/http"

	"crmrbac/internal/rbac/model"
	"crmrbac/internal/rbac/resolver"
	"crmrbac/internal/rbac/service"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	Service  service.RoleManagementService
	Resolver *resolver.Resolver
}

func NewHandler(s service.RoleManagementService, r *resolver.Resolver) *Handler {
	return &Handler{Service: s, Resolver: r}
}

// extractCallerID reads the authenticated caller from the gateway header.
func (h *Handler) extractCallerID(c echo.Context) (string, error) {
	callerID := c.Request().Header.Get("x-user-id")
	if callerID == "" {
		return "", service.ErrUnauthorized
	}
	return callerID, nil
}

func badRequest(c echo.Context, err error) error {
	if e, ok := err.(*model.ErrorDetail); ok {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: *e})
	}
	return c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Error: model.ErrorDetail{Code: "bad_request", Message: err.Error()},
	})
}

func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, model.StatusResponse{Status: "ok"})
}
