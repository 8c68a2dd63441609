package model

import "time"

// RoleAssignment is an append-only audit record of a role grant. It is
// never consulted during permission resolution; the only mutation ever
// applied is the status transition active -> revoked.
type RoleAssignment struct {
	ID         string     `bson:"_id,omitempty" json:"id"`
	UserID     string     `bson:"user_id" json:"user_id"`
	RoleID     string     `bson:"role_id" json:"role_id"`
	RoleName   string     `bson:"role_name,omitempty" json:"role_name,omitempty"`
	AssignedBy string     `bson:"assigned_by" json:"assigned_by"`
	AssignedAt time.Time  `bson:"assigned_at" json:"assigned_at"`
	Status     string     `bson:"status" json:"status"` // active | revoked
	ExpiresAt  *time.Time `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	RevokedBy  string     `bson:"revoked_by,omitempty" json:"revoked_by,omitempty"`
	RevokedAt  *time.Time `bson:"revoked_at,omitempty" json:"revoked_at,omitempty"`
}

// AuditEntry is a structured append-only audit sink record.
type AuditEntry struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Action      string    `bson:"action" json:"action"`
	Entity      string    `bson:"entity" json:"entity"`
	EntityID    string    `bson:"entity_id,omitempty" json:"entity_id,omitempty"`
	PerformedBy string    `bson:"performed_by" json:"performed_by"`
	Before      any       `bson:"before,omitempty" json:"before,omitempty"`
	After       any       `bson:"after,omitempty" json:"after,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
