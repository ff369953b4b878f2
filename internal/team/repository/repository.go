// Package repository provides the data access layer for the team module.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	teamModel "github.com/taskhive/taskhive/internal/team/model"
)

// Repository defines the interface for team data access operations.
type Repository interface {
	// Create persists a new team together with its creator membership row.
	Create(ctx context.Context, team *teamModel.Team) error

	// GetByID finds a team by id with members and invites loaded.
	GetByID(ctx context.Context, teamID string) (*teamModel.Team, error)

	// ListByMember returns all teams the given user belongs to.
	ListByMember(ctx context.Context, userID string) ([]teamModel.Team, error)

	// FindByInviteCode resolves the team owning an invite code.
	// Consumed invites still resolve; validity is the caller's concern.
	FindByInviteCode(ctx context.Context, code string) (*teamModel.Team, *teamModel.Invite, error)

	// IsMember reports whether the user belongs to the team.
	IsMember(ctx context.Context, teamID, userID string) (bool, error)

	// AddMember inserts a membership row.
	AddMember(ctx context.Context, teamID, userID string) error

	// RemoveMember deletes a membership row and reports whether it existed.
	RemoveMember(ctx context.Context, teamID, userID string) (bool, error)

	// AddInvite appends an invite to a team.
	AddInvite(ctx context.Context, invite *teamModel.Invite) error

	// ConsumeInvite marks an unexpired, unconsumed invite as consumed.
	// The conditional update is the atomic check-and-mutate guaranteeing
	// at most one successful redemption per code; it reports whether this
	// caller won.
	ConsumeInvite(ctx context.Context, code string, now time.Time) (bool, error)

	// UnassignMemberTasks clears the assignee on every team task currently
	// assigned to the given user.
	UnassignMemberTasks(ctx context.Context, teamID, userID string) error

	// Delete removes the team and cascades to its membership rows,
	// invites, tasks and notifications.
	Delete(ctx context.Context, teamID string) error
}

type repository struct {
	db *gorm.DB
}

// New creates a new team repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create persists a new team together with its creator membership row.
func (r *repository) Create(ctx context.Context, team *teamModel.Team) error {
	err := r.db.WithContext(ctx).Create(team).Error
	if err != nil {
		if isDuplicateError(err) {
			return teamModel.ErrTeamExists
		}
		return err
	}

	member := &teamModel.TeamMember{
		TeamID:   team.ID,
		UserID:   team.CreatorID,
		JoinedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return err
	}
	team.Members = append(team.Members, *member)
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

// GetByID finds a team by id with members and invites loaded.
func (r *repository) GetByID(ctx context.Context, teamID string) (*teamModel.Team, error) {
	var team teamModel.Team
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("team_members.id ASC")
		}).
		Preload("Invites").
		Where("id = ?", teamID).
		First(&team).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, teamModel.ErrTeamNotFound
		}
		return nil, err
	}

	return &team, nil
}

// ListByMember returns all teams the given user belongs to.
func (r *repository) ListByMember(ctx context.Context, userID string) ([]teamModel.Team, error) {
	var teams []teamModel.Team
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("team_members.id ASC")
		}).
		Preload("Invites").
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Order("teams.created_at ASC").
		Find(&teams).Error

	if err != nil {
		return nil, err
	}

	if teams == nil {
		teams = []teamModel.Team{}
	}
	return teams, nil
}

// FindByInviteCode resolves the team owning an invite code.
func (r *repository) FindByInviteCode(ctx context.Context, code string) (*teamModel.Team, *teamModel.Invite, error) {
	var invite teamModel.Invite
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&invite).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, teamModel.ErrInviteInvalid
		}
		return nil, nil, err
	}

	team, err := r.GetByID(ctx, invite.TeamID)
	if err != nil {
		return nil, nil, err
	}
	return team, &invite, nil
}

// IsMember reports whether the user belongs to the team.
func (r *repository) IsMember(ctx context.Context, teamID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&teamModel.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error

	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddMember inserts a membership row.
func (r *repository) AddMember(ctx context.Context, teamID, userID string) error {
	member := &teamModel.TeamMember{
		TeamID:   teamID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	err := r.db.WithContext(ctx).Create(member).Error
	if err != nil {
		if isDuplicateError(err) {
			return teamModel.ErrAlreadyMember
		}
		return err
	}
	return nil
}

// RemoveMember deletes a membership row and reports whether it existed.
func (r *repository) RemoveMember(ctx context.Context, teamID, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&teamModel.TeamMember{})

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AddInvite appends an invite to a team.
func (r *repository) AddInvite(ctx context.Context, invite *teamModel.Invite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

// ConsumeInvite marks an unexpired, unconsumed invite as consumed.
func (r *repository) ConsumeInvite(ctx context.Context, code string, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&teamModel.Invite{}).
		Where("code = ? AND consumed_at IS NULL AND expires_at > ?", code, now).
		Update("consumed_at", now)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// UnassignMemberTasks clears the assignee on every team task currently
// assigned to the given user.
func (r *repository) UnassignMemberTasks(ctx context.Context, teamID, userID string) error {
	return r.db.WithContext(ctx).
		Table("team_tasks").
		Where("team_id = ? AND assignee_id = ?", teamID, userID).
		Update("assignee_id", nil).Error
}

// Delete removes the team and cascades to its membership rows, invites,
// tasks and notifications.
func (r *repository) Delete(ctx context.Context, teamID string) error {
	for _, table := range []string{"team_tasks", "notifications", "team_members", "invites"} {
		if err := r.db.WithContext(ctx).
			Exec("DELETE FROM "+table+" WHERE team_id = ?", teamID).Error; err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).
		Where("id = ?", teamID).
		Delete(&teamModel.Team{}).Error
}
