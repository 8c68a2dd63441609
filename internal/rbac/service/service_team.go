package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crmrbac/internal/rbac/model"
	"crmrbac/internal/rbac/repository"
)

func (s *Service) CreateTeam(ctx context.Context, callerID string, req model.CreateTeamReq) (*model.Team, error) {
	req.Name = strings.TrimSpace(req.Name)
	if callerID == "" {
		return nil, ErrUnauthorized
	}
	if req.Name == "" || req.TeamLeadID == "" {
		return nil, ErrBadRequest
	}

	lead, err := s.Users.FindUserByID(ctx, req.TeamLeadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, req.TeamLeadID)
	}
	if lead.TeamID != "" {
		return nil, fmt.Errorf("%w: user %s already belongs to a team", ErrConflict, req.TeamLeadID)
	}

	// The lead is a member of their own team from the start.
	team := &model.Team{
		Name:       req.Name,
		TeamLeadID: req.TeamLeadID,
		MemberIDs:  []string{req.TeamLeadID},
		Department: req.Department,
		IsActive:   true,
	}
	if err := s.Teams.CreateTeam(ctx, team); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: team name %q already exists", ErrConflict, req.Name)
		}
		return nil, err
	}

	if err := s.Users.SetTeam(ctx, req.TeamLeadID, team.ID, true); err != nil {
		return nil, err
	}

	s.recordAudit(model.AuditTeamCreated, "team", team.ID, callerID, nil, team)
	s.logger.Info("team created", "team", team.Name, "lead", req.TeamLeadID, "caller", callerID)
	return team, nil
}

func (s *Service) AddTeamMember(ctx context.Context, callerID, teamID, userID string) error {
	if callerID == "" {
		return ErrUnauthorized
	}
	if teamID == "" || userID == "" {
		return ErrBadRequest
	}

	team, err := s.Teams.FindTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}
	if !team.IsActive {
		return fmt.Errorf("%w: team %q is inactive", ErrBadRequest, team.Name)
	}

	user, err := s.Users.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	// A user belongs to at most one team at a time.
	if user.TeamID != "" && user.TeamID != teamID {
		return fmt.Errorf("%w: user %s already belongs to another team", ErrConflict, userID)
	}

	if err := s.checkTeamCapacity(ctx, team); err != nil {
		return err
	}

	if err := s.Teams.AddMember(ctx, teamID, userID); err != nil {
		return err
	}
	if err := s.Users.SetTeam(ctx, userID, teamID, false); err != nil {
		return err
	}

	s.recordAudit(model.AuditTeamMemberAdded, "team", teamID, callerID, nil,
		map[string]any{"user_id": userID})
	s.logger.Info("team member added", "team", team.Name, "user", userID, "caller", callerID)
	return nil
}

func (s *Service) RemoveTeamMember(ctx context.Context, callerID, teamID, userID string) error {
	if callerID == "" {
		return ErrUnauthorized
	}
	if teamID == "" || userID == "" {
		return ErrBadRequest
	}

	team, err := s.Teams.FindTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}
	if team.TeamLeadID == userID {
		return ErrTeamLead
	}
	if !team.HasMember(userID) {
		return fmt.Errorf("%w: user %s is not a member of team %s", ErrNotFound, userID, teamID)
	}

	if err := s.Teams.RemoveMember(ctx, teamID, userID); err != nil {
		return err
	}
	if err := s.Users.SetTeam(ctx, userID, "", false); err != nil {
		return err
	}

	s.recordAudit(model.AuditTeamMemberMoved, "team", teamID, callerID,
		map[string]any{"user_id": userID}, nil)
	s.logger.Info("team member removed", "team", team.Name, "user", userID, "caller", callerID)
	return nil
}

// ChangeTeamLead reassigns leadership. The new lead must already be a
// member.
func (s *Service) ChangeTeamLead(ctx context.Context, callerID, teamID, userID string) error {
	if callerID == "" {
		return ErrUnauthorized
	}
	if teamID == "" || userID == "" {
		return ErrBadRequest
	}

	team, err := s.Teams.FindTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}
	if !team.HasMember(userID) {
		return fmt.Errorf("%w: new lead must be a team member", ErrBadRequest)
	}
	if team.TeamLeadID == userID {
		return nil
	}

	previousLeadID := team.TeamLeadID
	if err := s.Teams.SetTeamLead(ctx, teamID, userID); err != nil {
		return err
	}
	if previousLeadID != "" {
		if err := s.Users.SetTeam(ctx, previousLeadID, teamID, false); err != nil {
			return err
		}
	}
	if err := s.Users.SetTeam(ctx, userID, teamID, true); err != nil {
		return err
	}

	s.recordAudit(model.AuditTeamLeadChanged, "team", teamID, callerID,
		map[string]any{"team_lead_id": previousLeadID},
		map[string]any{"team_lead_id": userID})
	s.logger.Info("team lead changed", "team", team.Name, "lead", userID, "caller", callerID)
	return nil
}

// checkTeamCapacity enforces the lead role's max_team_size, when set.
func (s *Service) checkTeamCapacity(ctx context.Context, team *model.Team) error {
	lead, err := s.Users.FindUserByID(ctx, team.TeamLeadID)
	if err != nil {
		return err
	}
	if lead == nil || lead.RoleID == "" {
		return nil
	}
	role, err := s.Roles.FindRoleByID(ctx, lead.RoleID)
	if err != nil {
		return err
	}
	if role == nil || role.MaxTeamSize == nil {
		return nil
	}
	if len(team.MemberIDs) >= *role.MaxTeamSize {
		return fmt.Errorf("%w: team is at its maximum size of %d", ErrBadRequest, *role.MaxTeamSize)
	}
	return nil
}
