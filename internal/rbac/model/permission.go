package model

// Permission is a catalog entry. Codes are immutable once referenced by a
// role grant; the catalog is read-only at runtime except for administrative
// edits.
type Permission struct {
	ID          string `bson:"_id,omitempty" json:"id,omitempty"`
	Code        string `bson:"code" json:"code"`
	Category    string `bson:"category" json:"category"`
	DisplayName string `bson:"display_name" json:"display_name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Scope       string `bson:"scope" json:"scope"` // own | team | all | none
	Resource    string `bson:"resource" json:"resource"`
	Action      string `bson:"action" json:"action"`
}

// CodeValidationResult is the payload of ValidatePermissionCodes.
type CodeValidationResult struct {
	Valid    []string `json:"valid"`
	Invalid  []string `json:"invalid"`
	AllValid bool     `json:"all_valid"`
}
