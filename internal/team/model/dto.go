// Package model provides domain models and DTOs for the team module.
package model

import (
	"strings"
	"time"
)

// CreateTeamRequest represents the request to create a team.
type CreateTeamRequest struct {
	Name string `json:"name" binding:"required"`
}

// InviteRequest represents the request to issue an invite.
type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// JoinRequest represents the request to join a team with an invite code.
type JoinRequest struct {
	Code string `json:"code" binding:"required"`
}

// InviteResponse represents an invite in API responses.
type InviteResponse struct {
	Code      string    `json:"code"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TeamResponse represents a team projection in API responses.
// Invite codes are filtered to the viewer's own email so pending invites
// for other people are never exposed.
type TeamResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	CreatorID   string           `json:"creator_id"`
	Members     []string         `json:"members"`
	InviteCodes []InviteResponse `json:"invite_codes"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ToTeamResponse builds the caller-facing projection of a team.
// Consumed and expired invites are dropped; remaining ones are restricted
// to the viewer's email. An empty viewerEmail hides all invites.
func ToTeamResponse(team *Team, viewerEmail string, now time.Time) *TeamResponse {
	invites := make([]InviteResponse, 0)
	for _, inv := range team.Invites {
		if !inv.Valid(now) {
			continue
		}
		if viewerEmail == "" || !strings.EqualFold(inv.Email, viewerEmail) {
			continue
		}
		invites = append(invites, InviteResponse{
			Code:      inv.Code,
			Email:     inv.Email,
			ExpiresAt: inv.ExpiresAt,
		})
	}

	return &TeamResponse{
		ID:          team.ID,
		Name:        team.Name,
		CreatorID:   team.CreatorID,
		Members:     team.MemberIDs(),
		InviteCodes: invites,
		CreatedAt:   team.CreatedAt,
	}
}
