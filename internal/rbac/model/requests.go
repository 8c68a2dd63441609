package model

import "time"

type CreateRoleReq struct {
	Name        string           `json:"name" validate:"required,min=2,max=64"`
	DisplayName string           `json:"display_name" validate:"required,max=128"`
	Description string           `json:"description" validate:"max=512"`
	Permissions []RolePermission `json:"permissions" validate:"required,min=1,dive"`
	MaxTeamSize *int             `json:"max_team_size,omitempty" validate:"omitempty,min=1"`
}

func (r *CreateRoleReq) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	if dup := duplicateCode(r.Permissions); dup != "" {
		return &ErrorDetail{Code: "bad_request", Message: "duplicate permission code: " + dup}
	}
	return nil
}

type UpdateRoleReq struct {
	DisplayName *string          `json:"display_name,omitempty" validate:"omitempty,max=128"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=512"`
	IsActive    *bool            `json:"is_active,omitempty"`
	Permissions []RolePermission `json:"permissions,omitempty" validate:"omitempty,min=1,dive"`
	MaxTeamSize *int             `json:"max_team_size,omitempty" validate:"omitempty,min=1"`
}

func (r *UpdateRoleReq) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	if dup := duplicateCode(r.Permissions); dup != "" {
		return &ErrorDetail{Code: "bad_request", Message: "duplicate permission code: " + dup}
	}
	return nil
}

type CloneRoleReq struct {
	Name        string `json:"name" validate:"required,min=2,max=64"`
	DisplayName string `json:"display_name" validate:"required,max=128"`
	Description string `json:"description" validate:"max=512"`
}

func (r *CloneRoleReq) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type AssignRoleReq struct {
	UserID string `json:"user_id" validate:"required"`
	RoleID string `json:"role_id" validate:"required"`
}

func (r *AssignRoleReq) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type SetOverrideReq struct {
	PermissionCode string     `json:"permission_code" validate:"required"`
	Granted        bool       `json:"granted"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	Reason         string     `json:"reason,omitempty" validate:"max=512"`
}

func (r *SetOverrideReq) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	if r.ExpiresAt != nil && r.ExpiresAt.Before(time.Now()) {
		return &ErrorDetail{Code: "bad_request", Message: "expires_at must be in the future"}
	}
	return nil
}

type CheckPermissionReq struct {
	UserID         string `json:"user_id" validate:"required"`
	PermissionCode string `json:"permission_code" validate:"required"`
	ResourceID     string `json:"resource_id,omitempty"`
	CheckOwnership bool   `json:"check_ownership,omitempty"`
}

func (r *CheckPermissionReq) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	if r.CheckOwnership && r.ResourceID == "" {
		return &ErrorDetail{Code: "bad_request", Message: "resource_id is required when check_ownership is set"}
	}
	return nil
}

type CheckMultipleReq struct {
	UserID          string   `json:"user_id" validate:"required"`
	PermissionCodes []string `json:"permission_codes" validate:"required"`
	RequireAll      bool     `json:"require_all"`
}

func (r *CheckMultipleReq) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type ValidateCodesReq struct {
	Codes []string `json:"codes" validate:"required,min=1"`
}

func (r *ValidateCodesReq) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type CreateTeamReq struct {
	Name       string `json:"name" validate:"required,min=2,max=64"`
	TeamLeadID string `json:"team_lead_id" validate:"required"`
	Department string `json:"department,omitempty" validate:"max=128"`
}

func (r *CreateTeamReq) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type TeamMemberReq struct {
	UserID string `json:"user_id" validate:"required"`
}

func (r *TeamMemberReq) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

func duplicateCode(perms []RolePermission) string {
	seen := make(map[string]bool, len(perms))
	for _, p := range perms {
		if seen[p.PermissionCode] {
			return p.PermissionCode
		}
		seen[p.PermissionCode] = true
	}
	return ""
}
