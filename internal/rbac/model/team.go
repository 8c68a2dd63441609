package model

import "time"

// Team assigns users to at most one team each. The team lead is always a
// member; removing the lead requires reassigning leadership first.
type Team struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	Name       string    `bson:"name" json:"name"`
	TeamLeadID string    `bson:"team_lead_id" json:"team_lead_id"`
	MemberIDs  []string  `bson:"member_ids" json:"member_ids"`
	Department string    `bson:"department,omitempty" json:"department,omitempty"`
	IsActive   bool      `bson:"is_active" json:"is_active"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether userID is a member of the team.
func (t *Team) HasMember(userID string) bool {
	for _, id := range t.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// VisibilityFilter is the set filter produced for team-scoped permissions:
// resources owned by any listed member, or created by the caller.
type VisibilityFilter struct {
	MemberIDs []string `json:"member_ids"`
	CreatorID string   `json:"creator_id"`
}

// Includes reports whether a resource owned by ownerID or created by
// creatorID falls inside the filter.
func (f *VisibilityFilter) Includes(ownerID, creatorID string) bool {
	if creatorID != "" && creatorID == f.CreatorID {
		return true
	}
	for _, id := range f.MemberIDs {
		if id == ownerID {
			return true
		}
	}
	return false
}

// Ownership is the ownership-relevant projection of a resource document.
type Ownership struct {
	AssignedTo  string   `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	CoAssignees []string `bson:"co_assignees,omitempty" json:"co_assignees,omitempty"`
	CreatedBy   string   `bson:"created_by,omitempty" json:"created_by,omitempty"`
}
