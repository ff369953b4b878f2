// Package model provides domain models and DTOs for the teamtask module.
package model

import "time"

// CreateTaskRequest represents the request to create a team task.
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	IsStarred   bool       `json:"is_starred"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  *string    `json:"assignee_id"`
}

// UpdateTaskRequest represents a partial update of a team task.
// Nil fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	IsStarred   *bool      `json:"is_starred"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  *string    `json:"assignee_id"`
}

// Empty reports whether the update carries no fields at all.
func (r *UpdateTaskRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Status == nil &&
		r.IsStarred == nil && r.DueDate == nil && r.AssigneeID == nil
}
