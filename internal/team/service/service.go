// Package service provides business logic layer for the team module.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/taskhive/taskhive/internal/invite"
	notificationService "github.com/taskhive/taskhive/internal/notification/service"
	teamModel "github.com/taskhive/taskhive/internal/team/model"
	"github.com/taskhive/taskhive/internal/team/repository"
)

// Service defines the interface for team business logic operations.
type Service interface {
	// Create creates a new team owned by creatorID.
	Create(ctx context.Context, name, creatorID, creatorEmail string) (*teamModel.TeamResponse, error)

	// ListForUser returns all teams the caller belongs to.
	ListForUser(ctx context.Context, userID, userEmail string) ([]teamModel.TeamResponse, error)

	// Get returns one team, restricted to its members.
	Get(ctx context.Context, teamID, callerID, callerEmail string) (*teamModel.TeamResponse, error)

	// CreateInvite issues an invite code for a team (creator only).
	CreateInvite(ctx context.Context, teamID, issuerID, email string) (*teamModel.InviteResponse, error)

	// Join redeems an invite code against a specific team.
	Join(ctx context.Context, teamID, callerID, callerEmail, code string) (*teamModel.TeamResponse, error)

	// JoinByCode redeems an invite code without knowing the team upfront.
	JoinByCode(ctx context.Context, callerID, callerEmail, code string) (*teamModel.TeamResponse, error)

	// Leave removes a member from a team and unassigns their team tasks.
	Leave(ctx context.Context, teamID, userID, userEmail string) error

	// Delete removes a team and everything scoped to it (creator only).
	Delete(ctx context.Context, teamID, callerID string) error
}

type service struct {
	repo          repository.Repository
	invites       invite.Service
	notifications notificationService.Service
	db            *gorm.DB
	logger        *zap.SugaredLogger
}

// New creates a new team service instance.
func New(
	repo repository.Repository,
	invites invite.Service,
	notifications notificationService.Service,
	db *gorm.DB,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		repo:          repo,
		invites:       invites,
		notifications: notifications,
		db:            db,
		logger:        logger,
	}
}

// Create creates a new team owned by creatorID.
func (s *service) Create(ctx context.Context, name, creatorID, creatorEmail string) (*teamModel.TeamResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, teamModel.ErrInvalidTeamName
	}

	team := &teamModel.Team{
		ID:        uuid.NewString(),
		Name:      name,
		CreatorID: creatorID,
	}

	if err := s.repo.Create(ctx, team); err != nil {
		return nil, err
	}

	s.logger.Infow("team created", "team_id", team.ID, "creator_id", creatorID)
	return teamModel.ToTeamResponse(team, creatorEmail, time.Now()), nil
}

// ListForUser returns all teams the caller belongs to.
func (s *service) ListForUser(ctx context.Context, userID, userEmail string) ([]teamModel.TeamResponse, error) {
	teams, err := s.repo.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	responses := make([]teamModel.TeamResponse, 0, len(teams))
	for i := range teams {
		responses = append(responses, *teamModel.ToTeamResponse(&teams[i], userEmail, now))
	}
	return responses, nil
}

// Get returns one team, restricted to its members. A missing team is
// NotFound while an existing team the caller does not belong to is
// Forbidden; the two are deliberately distinguishable so members get a
// useful error, at the cost of letting outsiders probe team existence.
func (s *service) Get(ctx context.Context, teamID, callerID, callerEmail string) (*teamModel.TeamResponse, error) {
	team, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if !team.HasMember(callerID) {
		return nil, teamModel.ErrNotAMember
	}

	return teamModel.ToTeamResponse(team, callerEmail, time.Now()), nil
}

// CreateInvite issues an invite code for a team (creator only).
func (s *service) CreateInvite(ctx context.Context, teamID, issuerID, email string) (*teamModel.InviteResponse, error) {
	return s.invites.Issue(ctx, teamID, issuerID, email)
}

// Join redeems an invite code against a specific team.
func (s *service) Join(ctx context.Context, teamID, callerID, callerEmail, code string) (*teamModel.TeamResponse, error) {
	// Verify the code belongs to the team the caller addressed before
	// touching it, so a valid code for team A cannot join team B.
	_, inv, err := s.repo.FindByInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if inv.TeamID != teamID {
		return nil, teamModel.ErrInviteInvalid
	}

	return s.redeem(ctx, callerID, callerEmail, code)
}

// JoinByCode redeems an invite code without knowing the team upfront.
func (s *service) JoinByCode(ctx context.Context, callerID, callerEmail, code string) (*teamModel.TeamResponse, error) {
	return s.redeem(ctx, callerID, callerEmail, code)
}

func (s *service) redeem(ctx context.Context, callerID, callerEmail, code string) (*teamModel.TeamResponse, error) {
	team, err := s.invites.Redeem(ctx, code, callerID, callerEmail)
	if err != nil {
		return nil, err
	}

	s.notifications.Append(ctx, team.ID, fmt.Sprintf("User %s joined the team", callerEmail))
	return teamModel.ToTeamResponse(team, callerEmail, time.Now()), nil
}

// Leave removes a member from a team and unassigns their team tasks.
// Both writes happen in one transaction so a task can never keep a
// dangling assignee.
func (s *service) Leave(ctx context.Context, teamID, userID, userEmail string) error {
	team, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return err
	}

	if !team.HasMember(userID) {
		return teamModel.ErrNotAMember
	}

	if team.CreatorID == userID {
		return teamModel.ErrCreatorCannotLeave
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx)

		removed, txErr := txRepo.RemoveMember(ctx, teamID, userID)
		if txErr != nil {
			return txErr
		}
		if !removed {
			return teamModel.ErrNotAMember
		}

		return txRepo.UnassignMemberTasks(ctx, teamID, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Infow("member left team", "team_id", teamID, "user_id", userID)
	s.notifications.Append(ctx, teamID, fmt.Sprintf("User %s left the team", userEmail))
	return nil
}

// Delete removes a team and everything scoped to it (creator only).
// Cascade covers tasks, notifications, members and invites so no record
// can outlive its team.
func (s *service) Delete(ctx context.Context, teamID, callerID string) error {
	team, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return err
	}

	if team.CreatorID != callerID {
		return teamModel.ErrNotCreator
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.New(tx).Delete(ctx, teamID)
	})
	if err != nil {
		return err
	}

	s.logger.Infow("team deleted", "team_id", teamID, "creator_id", callerID)
	return nil
}
