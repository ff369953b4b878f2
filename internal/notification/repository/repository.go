// Package repository provides the data access layer for the notification module.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	notificationModel "github.com/taskhive/taskhive/internal/notification/model"
)

// Repository defines the interface for notification data access operations.
type Repository interface {
	// Append persists a new notification for a team.
	Append(ctx context.Context, teamID, message string) (*notificationModel.Notification, error)

	// ListByTeam returns a team's notifications in chronological order.
	ListByTeam(ctx context.Context, teamID string) ([]notificationModel.Notification, error)

	// DeleteByTeam removes all notifications of a team.
	DeleteByTeam(ctx context.Context, teamID string) error
}

type repository struct {
	db *gorm.DB
}

// New creates a new notification repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Append persists a new notification for a team.
func (r *repository) Append(ctx context.Context, teamID, message string) (*notificationModel.Notification, error) {
	notification := &notificationModel.Notification{
		ID:        uuid.NewString(),
		TeamID:    teamID,
		Message:   message,
		Timestamp: time.Now(),
	}

	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}

// ListByTeam returns a team's notifications in chronological order.
func (r *repository) ListByTeam(ctx context.Context, teamID string) ([]notificationModel.Notification, error) {
	var notifications []notificationModel.Notification
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("timestamp ASC").
		Find(&notifications).Error

	if err != nil {
		return nil, err
	}

	if notifications == nil {
		notifications = []notificationModel.Notification{}
	}
	return notifications, nil
}

// DeleteByTeam removes all notifications of a team.
func (r *repository) DeleteByTeam(ctx context.Context, teamID string) error {
	return r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Delete(&notificationModel.Notification{}).Error
}
