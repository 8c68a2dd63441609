package model

import "time"

// RolePermission is a single grant inside a role. Codes are unique within
// a role's permission list.
type RolePermission struct {
	PermissionCode string `bson:"permission_code" json:"permission_code"`
	Granted        bool   `bson:"granted" json:"granted"`
}

type Role struct {
	ID          string           `bson:"_id,omitempty" json:"id"`
	Name        string           `bson:"name" json:"name"`
	DisplayName string           `bson:"display_name" json:"display_name"`
	Description string           `bson:"description,omitempty" json:"description,omitempty"`
	Type        string           `bson:"type" json:"type"` // system | custom
	IsActive    bool             `bson:"is_active" json:"is_active"`
	Permissions []RolePermission `bson:"permissions" json:"permissions"`
	MaxTeamSize *int             `bson:"max_team_size,omitempty" json:"max_team_size,omitempty"`

	// UsersCount is a best-effort counter maintained via atomic $inc on
	// assignment. It is an admin hint only; deletion safety re-counts
	// holders with a real query instead of trusting it.
	UsersCount  int64 `bson:"users_count" json:"users_count"`
	IsDeletable bool  `bson:"is_deletable" json:"is_deletable"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	CreatedBy string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
	UpdatedBy string    `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}

// GrantedCodes returns the codes the role grants, in list order.
func (r *Role) GrantedCodes() []string {
	codes := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		if p.Granted {
			codes = append(codes, p.PermissionCode)
		}
	}
	return codes
}

type RoleFilter struct {
	Type     string
	IsActive *bool
	Name     string
}
