// Package handler provides HTTP handlers for the notification log.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/notification/service"
	teamModel "github.com/taskhive/taskhive/internal/team/model"
)

// Handler handles HTTP requests for team notifications.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new notification handler instance.
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

func errorResponse(c *gin.Context, code string, message string, statusCode int) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	c.JSON(statusCode, resp)
}

// List handles GET /teams/:teamId/notifications.
func (h *Handler) List(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing identity", http.StatusUnauthorized)
		return
	}

	teamID := c.Param("teamId")
	notifications, err := h.service.List(c.Request.Context(), teamID, identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, teamModel.ErrTeamNotFound):
			errorResponse(c, "NOT_FOUND", "team not found", http.StatusNotFound)
		case errors.Is(err, teamModel.ErrNotAMember):
			errorResponse(c, "FORBIDDEN", "user is not a member of this team", http.StatusForbidden)
		default:
			h.logger.Errorw("error listing notifications", "team_id", teamID, "error", err)
			errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}
