package model

import "time"

// Override is an explicit per-user grant or denial of a single permission
// code. At most one active (non-expired) override exists per
// (user, permission_code) pair; setting a new one for the same code
// replaces the prior one. Expired overrides are inert and skipped during
// resolution without being eagerly deleted.
type Override struct {
	PermissionCode string     `bson:"permission_code" json:"permission_code"`
	Granted        bool       `bson:"granted" json:"granted"`
	GrantedBy      string     `bson:"granted_by" json:"granted_by"`
	GrantedAt      time.Time  `bson:"granted_at" json:"granted_at"`
	ExpiresAt      *time.Time `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	Reason         string     `bson:"reason,omitempty" json:"reason,omitempty"`
}

// Expired reports whether the override is inert at the given instant.
func (o *Override) Expired(now time.Time) bool {
	return o.ExpiresAt != nil && o.ExpiresAt.Before(now)
}

// User is the permission-relevant projection of a CRM user document.
type User struct {
	ID           string `bson:"_id,omitempty" json:"id"`
	Email        string `bson:"email,omitempty" json:"email,omitempty"`
	IsSuperAdmin bool   `bson:"is_super_admin" json:"is_super_admin"`
	RoleID       string `bson:"role_id,omitempty" json:"role_id,omitempty"`

	PermissionOverrides []Override `bson:"permission_overrides,omitempty" json:"permission_overrides,omitempty"`

	// EffectivePermissions is denormalized output of the resolver. Only
	// ComputeEffectivePermissions writes it; everything else reads.
	EffectivePermissions    []string   `bson:"effective_permissions,omitempty" json:"effective_permissions,omitempty"`
	PermissionsLastComputed *time.Time `bson:"permissions_last_computed,omitempty" json:"permissions_last_computed,omitempty"`

	TeamID     string `bson:"team_id,omitempty" json:"team_id,omitempty"`
	IsTeamLead bool   `bson:"is_team_lead" json:"is_team_lead"`
	ReportsTo  string `bson:"reports_to,omitempty" json:"reports_to,omitempty"`
}

// ActiveOverride returns the non-expired override for code, if any.
func (u *User) ActiveOverride(code string, now time.Time) (*Override, bool) {
	for i := range u.PermissionOverrides {
		ov := &u.PermissionOverrides[i]
		if ov.PermissionCode == code && !ov.Expired(now) {
			return ov, true
		}
	}
	return nil, false
}

// RoleSummary is the role portion of the introspection payload.
type RoleSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
}

// UserPermissionsInfo is the diagnostic payload of GetUserPermissions.
type UserPermissionsInfo struct {
	UserID                  string       `json:"user_id"`
	IsSuperAdmin            bool         `json:"is_super_admin"`
	Role                    *RoleSummary `json:"role,omitempty"`
	EffectivePermissions    []string     `json:"effective_permissions"`
	EffectiveCount          int          `json:"effective_count"`
	ActiveOverrides         []Override   `json:"active_overrides,omitempty"`
	ActiveOverrideCount     int          `json:"active_override_count"`
	PermissionsLastComputed *time.Time   `json:"permissions_last_computed,omitempty"`
}
