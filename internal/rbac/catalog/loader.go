package catalog

import (
	"embed"
	"encoding/json"
	"fmt"

	"crmrbac/internal/rbac/model"
)

//go:embed seed/permissions.json
var seedFS embed.FS

var validScopes = map[string]bool{
	model.PermScopeOwn:  true,
	model.PermScopeTeam: true,
	model.PermScopeAll:  true,
	model.PermScopeNone: true,
}

// Load parses the embedded permission catalog seed. The seed is the
// source of truth for bootstrap; runtime lookups go through the
// permissions collection so administrative catalog edits take effect
// without a rebuild.
func Load() ([]*model.Permission, error) {
	data, err := seedFS.ReadFile("seed/permissions.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read permission seed: %w", err)
	}

	var perms []*model.Permission
	if err := json.Unmarshal(data, &perms); err != nil {
		return nil, fmt.Errorf("failed to parse permission seed: %w", err)
	}

	seen := make(map[string]bool, len(perms))
	for _, p := range perms {
		if p.Code == "" {
			return nil, fmt.Errorf("permission seed contains an empty code")
		}
		if seen[p.Code] {
			return nil, fmt.Errorf("duplicate permission code in seed: %s", p.Code)
		}
		seen[p.Code] = true
		if !validScopes[p.Scope] {
			return nil, fmt.Errorf("permission %s has invalid scope %q", p.Code, p.Scope)
		}
	}

	return perms, nil
}
