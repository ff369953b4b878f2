// Package service provides business logic layer for the teamtask module.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	notificationService "github.com/taskhive/taskhive/internal/notification/service"
	teamModel "github.com/taskhive/taskhive/internal/team/model"
	teamRepository "github.com/taskhive/taskhive/internal/team/repository"
	taskModel "github.com/taskhive/taskhive/internal/teamtask/model"
	"github.com/taskhive/taskhive/internal/teamtask/repository"
)

// Service defines the interface for team task business logic operations.
type Service interface {
	// Create creates a task in a team. The creator must be a member and
	// the assignee, when set, must be a member too.
	Create(ctx context.Context, teamID, creatorID, creatorEmail string, req *taskModel.CreateTaskRequest) (*taskModel.Task, error)

	// List returns a team's tasks, restricted to members.
	List(ctx context.Context, teamID, callerID string) ([]taskModel.Task, error)

	// Update applies a partial update to a task. Only supplied fields are
	// written; title uniqueness and assignee membership are re-validated
	// when those fields change.
	Update(ctx context.Context, taskID, teamID, callerID, callerEmail string, req *taskModel.UpdateTaskRequest) (*taskModel.Task, error)

	// Delete removes a task and returns its title.
	Delete(ctx context.Context, taskID, teamID, callerID, callerEmail string) (string, error)
}

type service struct {
	repo          repository.Repository
	teamRepo      teamRepository.Repository
	notifications notificationService.Service
	logger        *zap.SugaredLogger
}

// New creates a new teamtask service instance.
func New(
	repo repository.Repository,
	teamRepo teamRepository.Repository,
	notifications notificationService.Service,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		repo:          repo,
		teamRepo:      teamRepo,
		notifications: notifications,
		logger:        logger,
	}
}

// memberTeam loads the team and verifies the caller belongs to it.
func (s *service) memberTeam(ctx context.Context, teamID, callerID string) (*teamModel.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.HasMember(callerID) {
		return nil, teamModel.ErrNotAMember
	}
	return team, nil
}

// Create creates a task in a team.
func (s *service) Create(ctx context.Context, teamID, creatorID, creatorEmail string, req *taskModel.CreateTaskRequest) (*taskModel.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, taskModel.ErrInvalidTitle
	}

	status := req.Status
	if status == "" {
		status = taskModel.StatusTodo
	}
	if !taskModel.ValidStatus(status) {
		return nil, taskModel.ErrInvalidStatus
	}

	team, err := s.memberTeam(ctx, teamID, creatorID)
	if err != nil {
		return nil, err
	}

	if req.AssigneeID != nil && !team.HasMember(*req.AssigneeID) {
		return nil, taskModel.ErrInvalidAssignee
	}

	taken, err := s.repo.TitleTaken(ctx, teamID, title, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, taskModel.ErrTaskExists
	}

	task := &taskModel.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: req.Description,
		Status:      status,
		IsStarred:   req.IsStarred,
		DueDate:     req.DueDate,
		TeamID:      teamID,
		AssigneeID:  req.AssigneeID,
		CreatorID:   creatorID,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Infow("team task created", "task_id", task.ID, "team_id", teamID)
	s.notifications.Append(ctx, teamID,
		fmt.Sprintf("User %s created task: %s", creatorEmail, title))
	return task, nil
}

// List returns a team's tasks, restricted to members.
func (s *service) List(ctx context.Context, teamID, callerID string) ([]taskModel.Task, error) {
	if _, err := s.memberTeam(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListByTeam(ctx, teamID)
}

// teamTask loads a task and verifies it belongs to the addressed team.
// A task existing under a different team is reported as not found so a
// task id cannot be probed across teams.
func (s *service) teamTask(ctx context.Context, taskID, teamID string) (*taskModel.Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.TeamID != teamID {
		return nil, taskModel.ErrTaskNotFound
	}
	return task, nil
}

// Update applies a partial update to a task.
func (s *service) Update(ctx context.Context, taskID, teamID, callerID, callerEmail string, req *taskModel.UpdateTaskRequest) (*taskModel.Task, error) {
	task, err := s.teamTask(ctx, taskID, teamID)
	if err != nil {
		return nil, err
	}

	team, err := s.memberTeam(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}

	if req.AssigneeID != nil && *req.AssigneeID != "" && !team.HasMember(*req.AssigneeID) {
		return nil, taskModel.ErrInvalidAssignee
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, taskModel.ErrInvalidTitle
		}
		if title != task.Title {
			taken, takenErr := s.repo.TitleTaken(ctx, teamID, title, taskID)
			if takenErr != nil {
				return nil, takenErr
			}
			if taken {
				return nil, taskModel.ErrTaskExists
			}
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		if !taskModel.ValidStatus(*req.Status) {
			return nil, taskModel.ErrInvalidStatus
		}
		task.Status = *req.Status
	}
	if req.IsStarred != nil {
		task.IsStarred = *req.IsStarred
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.AssigneeID != nil {
		if *req.AssigneeID == "" {
			task.AssigneeID = nil
		} else {
			task.AssigneeID = req.AssigneeID
		}
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Infow("team task updated", "task_id", taskID, "team_id", teamID)
	s.notifications.Append(ctx, teamID,
		fmt.Sprintf("User %s updated task: %s", callerEmail, task.Title))
	return task, nil
}

// Delete removes a task and returns its title.
func (s *service) Delete(ctx context.Context, taskID, teamID, callerID, callerEmail string) (string, error) {
	task, err := s.teamTask(ctx, taskID, teamID)
	if err != nil {
		return "", err
	}

	if _, err := s.memberTeam(ctx, teamID, callerID); err != nil {
		return "", err
	}

	if err := s.repo.Delete(ctx, taskID); err != nil {
		return "", err
	}

	s.logger.Infow("team task deleted", "task_id", taskID, "team_id", teamID)
	s.notifications.Append(ctx, teamID,
		fmt.Sprintf("User %s deleted task: %s", callerEmail, task.Title))
	return task.Title, nil
}
