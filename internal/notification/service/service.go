// Package service provides business logic layer for the notification module.
package service

import (
	"context"

	"go.uber.org/zap"

	notificationModel "github.com/taskhive/taskhive/internal/notification/model"
	"github.com/taskhive/taskhive/internal/notification/repository"
	teamModel "github.com/taskhive/taskhive/internal/team/model"
	teamRepository "github.com/taskhive/taskhive/internal/team/repository"
)

// Service defines the interface for notification business logic operations.
type Service interface {
	// Append records team activity. Server-internal; no authorization check.
	Append(ctx context.Context, teamID, message string)

	// List returns a team's notifications, restricted to team members.
	List(ctx context.Context, teamID, callerID string) ([]notificationModel.Notification, error)
}

type service struct {
	repo     repository.Repository
	teamRepo teamRepository.Repository
	logger   *zap.SugaredLogger
}

// New creates a new notification service instance.
func New(repo repository.Repository, teamRepo teamRepository.Repository, logger *zap.SugaredLogger) Service {
	return &service{
		repo:     repo,
		teamRepo: teamRepo,
		logger:   logger,
	}
}

// Append records team activity. A persistence failure here must not fail
// the operation that produced the activity, so it is logged and swallowed.
func (s *service) Append(ctx context.Context, teamID, message string) {
	if _, err := s.repo.Append(ctx, teamID, message); err != nil {
		s.logger.Errorw("failed to append notification",
			"team_id", teamID, "message", message, "error", err)
		return
	}
	s.logger.Debugw("notification appended", "team_id", teamID, "message", message)
}

// List returns a team's notifications, restricted to team members.
func (s *service) List(ctx context.Context, teamID, callerID string) ([]notificationModel.Notification, error) {
	isMember, err := s.teamRepo.IsMember(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		// Distinguish a missing team from a membership failure.
		if _, getErr := s.teamRepo.GetByID(ctx, teamID); getErr != nil {
			return nil, getErr
		}
		return nil, teamModel.ErrNotAMember
	}

	return s.repo.ListByTeam(ctx, teamID)
}
