package resolver

import (
	"context"
	"fmt"
	"sort"

	"crmrbac/internal/rbac/model"
)

// TeamVisibilityFilter produces the set filter for team-scoped
// permissions: all resources owned by any member of the caller's team, or
// created by the caller. The team lead always counts as a member of their
// own team.
//
// With nested team access enabled, subordinate reports are folded in via
// an iterative BFS over the reports_to relation. A visited set breaks
// cycles; the depth bound (max_hierarchy_depth x safety_factor) is a hard
// stop even if cycle detection were bypassed.
func (r *Resolver) TeamVisibilityFilter(ctx context.Context, user *model.User) (*model.VisibilityFilter, error) {
	if user == nil {
		return nil, fmt.Errorf("team visibility filter: %w", ErrUserNotFound)
	}

	members := map[string]struct{}{user.ID: {}}

	if user.TeamID != "" {
		team, err := r.teams.FindTeamByID(ctx, user.TeamID)
		if err != nil {
			return nil, fmt.Errorf("team visibility filter: %w", err)
		}
		if team != nil && team.IsActive {
			for _, id := range team.MemberIDs {
				members[id] = struct{}{}
			}
			if team.TeamLeadID != "" {
				members[team.TeamLeadID] = struct{}{}
			}
		}
	}

	if r.cfg.NestedTeamAccess {
		if err := r.collectSubordinates(ctx, user.ID, members); err != nil {
			return nil, fmt.Errorf("team visibility filter: %w", err)
		}
	}

	ids := make([]string, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return &model.VisibilityFilter{MemberIDs: ids, CreatorID: user.ID}, nil
}

// collectSubordinates walks reports_to transitively with an explicit
// worklist, adding every reachable subordinate to members.
func (r *Resolver) collectSubordinates(ctx context.Context, rootID string, members map[string]struct{}) error {
	maxDepth := r.cfg.MaxHierarchyDepth * r.cfg.HierarchySafetyFactor

	visited := map[string]struct{}{rootID: {}}
	frontier := []string{rootID}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, managerID := range frontier {
			reports, err := r.users.FindDirectReports(ctx, managerID)
			if err != nil {
				return err
			}
			for _, id := range reports {
				if _, seen := visited[id]; seen {
					continue
				}
				visited[id] = struct{}{}
				members[id] = struct{}{}
				next = append(next, id)
			}
		}
		frontier = next
	}

	return nil
}
