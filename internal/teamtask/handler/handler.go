// Package handler provides HTTP handlers for team task endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/middleware"
	teamModel "github.com/taskhive/taskhive/internal/team/model"
	taskModel "github.com/taskhive/taskhive/internal/teamtask/model"
	"github.com/taskhive/taskhive/internal/teamtask/service"
)

// Handler handles HTTP requests for team task endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new teamtask handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// ErrorResponse represents the error response envelope.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// errorResponse writes an error response envelope.
func errorResponse(c *gin.Context, code string, message string, statusCode int) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	c.JSON(statusCode, resp)
}

// domainErrorResponse maps task domain errors to caller-visible failures.
// It reports whether the error was recognized.
func domainErrorResponse(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, teamModel.ErrTeamNotFound):
		errorResponse(c, "NOT_FOUND", "team not found", http.StatusNotFound)
	case errors.Is(err, teamModel.ErrNotAMember):
		errorResponse(c, "FORBIDDEN", "user is not a member of this team", http.StatusForbidden)
	case errors.Is(err, taskModel.ErrTaskNotFound):
		errorResponse(c, "NOT_FOUND", "task not found", http.StatusNotFound)
	case errors.Is(err, taskModel.ErrTaskExists):
		errorResponse(c, "TASK_EXISTS", "task with this title already exists in this team", http.StatusBadRequest)
	case errors.Is(err, taskModel.ErrInvalidTitle):
		errorResponse(c, "INVALID_REQUEST", "task title is required", http.StatusBadRequest)
	case errors.Is(err, taskModel.ErrInvalidStatus):
		errorResponse(c, "INVALID_REQUEST", "status must be todo or done", http.StatusBadRequest)
	case errors.Is(err, taskModel.ErrInvalidAssignee):
		errorResponse(c, "INVALID_ASSIGNEE", "assignee must be a team member", http.StatusBadRequest)
	default:
		return false
	}
	return true
}

// Create handles POST /teams/:teamId/tasks.
func (h *Handler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing identity", http.StatusUnauthorized)
		return
	}

	var req taskModel.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	teamID := c.Param("teamId")
	task, err := h.service.Create(c.Request.Context(), teamID, identity.UserID, identity.Email, &req)
	if err != nil {
		if domainErrorResponse(c, err) {
			return
		}
		h.logger.Errorw("error creating task", "team_id", teamID, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// List handles GET /teams/:teamId/tasks.
func (h *Handler) List(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing identity", http.StatusUnauthorized)
		return
	}

	teamID := c.Param("teamId")
	tasks, err := h.service.List(c.Request.Context(), teamID, identity.UserID)
	if err != nil {
		if domainErrorResponse(c, err) {
			return
		}
		h.logger.Errorw("error listing tasks", "team_id", teamID, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// Update handles PATCH /teams/:teamId/tasks/:taskId.
func (h *Handler) Update(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing identity", http.StatusUnauthorized)
		return
	}

	var req taskModel.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	teamID := c.Param("teamId")
	taskID := c.Param("taskId")
	task, err := h.service.Update(c.Request.Context(), taskID, teamID, identity.UserID, identity.Email, &req)
	if err != nil {
		if domainErrorResponse(c, err) {
			return
		}
		h.logger.Errorw("error updating task", "task_id", taskID, "team_id", teamID, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /teams/:teamId/tasks/:taskId.
func (h *Handler) Delete(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing identity", http.StatusUnauthorized)
		return
	}

	teamID := c.Param("teamId")
	taskID := c.Param("taskId")
	title, err := h.service.Delete(c.Request.Context(), taskID, teamID, identity.UserID, identity.Email)
	if err != nil {
		if domainErrorResponse(c, err) {
			return
		}
		h.logger.Errorw("error deleting task", "task_id", taskID, "team_id", teamID, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted successfully", "title": title})
}
