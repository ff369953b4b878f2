// Package handler provides HTTP handlers for team endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/middleware"
	teamModel "github.com/taskhive/taskhive/internal/team/model"
	"github.com/taskhive/taskhive/internal/team/service"
)

// Handler handles HTTP requests for team endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new team handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Create handles POST /teams.
func (h *Handler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing identity", http.StatusUnauthorized)
		return
	}

	var req teamModel.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req.Name, identity.UserID, identity.Email)
	if err != nil {
		if domainErrorResponse(c, err) {
			return
		}
		h.logger.Errorw("error creating team", "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// List handles GET /teams.
func (h *Handler) List(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing identity", http.StatusUnauthorized)
		return
	}

	resp, err := h.service.ListForUser(c.Request.Context(), identity.UserID, identity.Email)
	if err != nil {
		h.logger.Errorw("error listing teams", "user_id", identity.UserID, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": resp})
}

// Get handles GET /teams/:teamId.
func (h *Handler) Get(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing identity", http.StatusUnauthorized)
		return
	}

	teamID := c.Param("teamId")
	resp, err := h.service.Get(c.Request.Context(), teamID, identity.UserID, identity.Email)
	if err != nil {
		if domainErrorResponse(c, err) {
			return
		}
		h.logger.Errorw("error getting team", "team_id", teamID, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateInvite handles POST /teams/:teamId/invite.
func (h *Handler) CreateInvite(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing identity", http.StatusUnauthorized)
		return
	}

	var req teamModel.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "a valid email is required", http.StatusBadRequest)
		return
	}

	teamID := c.Param("teamId")
	resp, err := h.service.CreateInvite(c.Request.Context(), teamID, identity.UserID, req.Email)
	if err != nil {
		if domainErrorResponse(c, err) {
			return
		}
		h.logger.Errorw("error creating invite", "team_id", teamID, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Join handles POST /teams/:teamId/join.
func (h *Handler) Join(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing identity", http.StatusUnauthorized)
		return
	}

	var req teamModel.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invite code is required", http.StatusBadRequest)
		return
	}

	teamID := c.Param("teamId")
	resp, err := h.service.Join(c.Request.Context(), teamID, identity.UserID, identity.Email, req.Code)
	if err != nil {
		if domainErrorResponse(c, err) {
			return
		}
		h.logger.Errorw("error joining team", "team_id", teamID, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// JoinByCode handles POST /teams/join-by-code.
func (h *Handler) JoinByCode(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing identity", http.StatusUnauthorized)
		return
	}

	var req teamModel.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invite code is required", http.StatusBadRequest)
		return
	}

	resp, err := h.service.JoinByCode(c.Request.Context(), identity.UserID, identity.Email, req.Code)
	if err != nil {
		if domainErrorResponse(c, err) {
			return
		}
		h.logger.Errorw("error joining team by code", "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Leave handles DELETE /teams/:teamId/members/:userId.
func (h *Handler) Leave(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing identity", http.StatusUnauthorized)
		return
	}

	teamID := c.Param("teamId")
	memberID := c.Param("userId")
	if memberID != identity.UserID {
		domainErrorResponse(c, teamModel.ErrLeaveOtherMember)
		return
	}

	err := h.service.Leave(c.Request.Context(), teamID, identity.UserID, identity.Email)
	if err != nil {
		if domainErrorResponse(c, err) {
			return
		}
		h.logger.Errorw("error leaving team", "team_id", teamID, "user_id", identity.UserID, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "left team successfully"})
}

// Delete handles DELETE /teams/:teamId.
func (h *Handler) Delete(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing identity", http.StatusUnauthorized)
		return
	}

	teamID := c.Param("teamId")
	err := h.service.Delete(c.Request.Context(), teamID, identity.UserID)
	if err != nil {
		if domainErrorResponse(c, err) {
			return
		}
		h.logger.Errorw("error deleting team", "team_id", teamID, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "team deleted successfully"})
}
