package model

import "errors"

var (
	// ErrTaskNotFound indicates that the task does not exist in this team.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskExists indicates that the team already has a task with that title.
	ErrTaskExists = errors.New("task with this title already exists in this team")
	// ErrInvalidTitle indicates that the provided task title is invalid (e.g., empty).
	ErrInvalidTitle = errors.New("invalid task title")
	// ErrInvalidStatus indicates an unknown task status value.
	ErrInvalidStatus = errors.New("status must be todo or done")
	// ErrInvalidAssignee indicates that the assignee is not a team member.
	ErrInvalidAssignee = errors.New("assignee must be a team member")
)
