package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	teamModel "github.com/taskhive/taskhive/internal/team/model"
)

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

// domainErrorResponse maps team domain errors to caller-visible failures.
// It reports whether the error was recognized.
func domainErrorResponse(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, teamModel.ErrTeamNotFound):
		errorResponse(c, "NOT_FOUND", "team not found", http.StatusNotFound)
	case errors.Is(err, teamModel.ErrTeamExists):
		errorResponse(c, "TEAM_EXISTS", "team with this name already exists", http.StatusBadRequest)
	case errors.Is(err, teamModel.ErrInvalidTeamName):
		errorResponse(c, "INVALID_REQUEST", "team name is required", http.StatusBadRequest)
	case errors.Is(err, teamModel.ErrNotAMember):
		errorResponse(c, "FORBIDDEN", "user is not a member of this team", http.StatusForbidden)
	case errors.Is(err, teamModel.ErrNotCreator):
		errorResponse(c, "FORBIDDEN", "only the team creator can perform this action", http.StatusForbidden)
	case errors.Is(err, teamModel.ErrCreatorCannotLeave):
		errorResponse(c, "FORBIDDEN", "team creator cannot leave the team", http.StatusForbidden)
	case errors.Is(err, teamModel.ErrLeaveOtherMember):
		errorResponse(c, "FORBIDDEN", "you can only leave a team as yourself", http.StatusForbidden)
	case errors.Is(err, teamModel.ErrAlreadyMember):
		errorResponse(c, "ALREADY_MEMBER", "user is already a member of this team", http.StatusBadRequest)
	case errors.Is(err, teamModel.ErrInviteInvalid), errors.Is(err, teamModel.ErrInviteWrongEmail):
		// One caller-visible class for unknown, expired, consumed and
		// wrong-recipient codes so existing codes cannot be probed.
		errorResponse(c, "INVALID_INVITE", "invalid or expired invite code", http.StatusBadRequest)
	default:
		return false
	}
	return true
}
