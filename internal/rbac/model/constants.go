package model

// Role types
const (
	RoleTypeSystem = "system"
	RoleTypeCustom = "custom"
)

// System role names seeded at bootstrap
const (
	RoleNameSuperAdmin = "super_admin"
	RoleNameAdmin      = "admin"
	RoleNameUser       = "user"
)

// Permission scopes
const (
	PermScopeOwn  = "own"
	PermScopeTeam = "team"
	PermScopeAll  = "all"
	PermScopeNone = "none"
)

// Role assignment statuses
const (
	AssignmentStatusActive  = "active"
	AssignmentStatusRevoked = "revoked"
)

// Ownership-checked resource types. The resource prefix of a permission
// code ("lead.update_own" -> "lead") selects the ownership strategy.
const (
	ResourceTypeLead     = "lead"
	ResourceTypeContact  = "contact"
	ResourceTypeBatch    = "batch"
	ResourceTypeCampaign = "campaign"
)

// Collections holding ownership-checked resource documents
const (
	CollectionLeads     = "leads"
	CollectionContacts  = "contacts"
	CollectionBatches   = "batches"
	CollectionCampaigns = "campaigns"
)

// Audit actions
const (
	AuditRoleCreated     = "role_created"
	AuditRoleUpdated     = "role_updated"
	AuditRoleDeleted     = "role_deleted"
	AuditRoleCloned      = "role_cloned"
	AuditRoleAssigned    = "role_assigned"
	AuditOverrideSet     = "override_set"
	AuditOverrideRemoved = "override_removed"
	AuditTeamCreated     = "team_created"
	AuditTeamMemberAdded = "team_member_added"
	AuditTeamMemberMoved = "team_member_removed"
	AuditTeamLeadChanged = "team_lead_changed"
)
