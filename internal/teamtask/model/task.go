package model

import (
	"time"

	"gorm.io/gorm"
)

// Task statuses.
const (
	StatusTodo = "todo"
	StatusDone = "done"
)

// Task represents a team-scoped task entity.
// Matches the team_tasks table schema.
type Task struct {
	ID          string     `gorm:"primaryKey;column:id;type:varchar(36)"                                       json:"id"`
	Title       string     `gorm:"column:title;type:varchar(255);not null;uniqueIndex:idx_tasks_team_title"    json:"title"`
	Description string     `gorm:"column:description;type:text"                                                json:"description,omitempty"`
	Status      string     `gorm:"column:status;type:varchar(16);not null;default:todo"                        json:"status"`
	IsStarred   bool       `gorm:"column:is_starred;type:boolean;not null;default:false"                       json:"is_starred"`
	DueDate     *time.Time `gorm:"column:due_date;type:timestamptz"                                            json:"due_date,omitempty"`
	TeamID      string     `gorm:"column:team_id;type:varchar(36);not null;uniqueIndex:idx_tasks_team_title;index:idx_tasks_team_id" json:"team_id"`
	AssigneeID  *string    `gorm:"column:assignee_id;type:varchar(255)"                                        json:"assignee_id,omitempty"`
	CreatorID   string     `gorm:"column:creator_id;type:varchar(255);not null"                                json:"creator_id"`
	CreatedAt   time.Time  `gorm:"column:created_at;type:timestamptz;not null"                   json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;type:timestamptz;not null"                   json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Task) TableName() string {
	return "team_tasks"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (t *Task) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return nil
}

// ValidStatus reports whether s is a known task status.
func ValidStatus(s string) bool {
	return s == StatusTodo || s == StatusDone
}
