// Package repository provides the data access layer for the teamtask module.
package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	taskModel "github.com/taskhive/taskhive/internal/teamtask/model"
)

// Repository defines the interface for team task data access operations.
type Repository interface {
	// Create persists a new task.
	Create(ctx context.Context, task *taskModel.Task) error

	// GetByID finds a task by id.
	GetByID(ctx context.Context, taskID string) (*taskModel.Task, error)

	// ListByTeam returns all tasks of a team in creation order.
	ListByTeam(ctx context.Context, teamID string) ([]taskModel.Task, error)

	// TitleTaken reports whether another task in the team uses the title.
	TitleTaken(ctx context.Context, teamID, title, excludeTaskID string) (bool, error)

	// Update persists the given task.
	Update(ctx context.Context, task *taskModel.Task) error

	// Delete removes a task by id.
	Delete(ctx context.Context, taskID string) error
}

type repository struct {
	db *gorm.DB
}

// New creates a new teamtask repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create persists a new task.
func (r *repository) Create(ctx context.Context, task *taskModel.Task) error {
	err := r.db.WithContext(ctx).Create(task).Error
	if err != nil {
		if isDuplicateError(err) {
			return taskModel.ErrTaskExists
		}
		return err
	}
	return nil
}

// isDuplicateError checks if error is a duplicate key error.
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint")
}

// GetByID finds a task by id.
func (r *repository) GetByID(ctx context.Context, taskID string) (*taskModel.Task, error) {
	var task taskModel.Task
	err := r.db.WithContext(ctx).
		Where("id = ?", taskID).
		First(&task).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, taskModel.ErrTaskNotFound
		}
		return nil, err
	}

	return &task, nil
}

// ListByTeam returns all tasks of a team in creation order.
func (r *repository) ListByTeam(ctx context.Context, teamID string) ([]taskModel.Task, error) {
	var tasks []taskModel.Task
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("created_at ASC").
		Find(&tasks).Error

	if err != nil {
		return nil, err
	}

	if tasks == nil {
		tasks = []taskModel.Task{}
	}
	return tasks, nil
}

// TitleTaken reports whether another task in the team uses the title.
func (r *repository) TitleTaken(ctx context.Context, teamID, title, excludeTaskID string) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&taskModel.Task{}).
		Where("team_id = ? AND title = ?", teamID, title)
	if excludeTaskID != "" {
		query = query.Where("id <> ?", excludeTaskID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update persists the given task.
func (r *repository) Update(ctx context.Context, task *taskModel.Task) error {
	err := r.db.WithContext(ctx).Save(task).Error
	if err != nil && isDuplicateError(err) {
		return taskModel.ErrTaskExists
	}
	return err
}

// Delete removes a task by id.
func (r *repository) Delete(ctx context.Context, taskID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", taskID).
		Delete(&taskModel.Task{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return taskModel.ErrTaskNotFound
	}
	return nil
}
