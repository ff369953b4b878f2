package realtime

import (
	"context"
	"fmt"
	"time"

	teamModel "github.com/taskhive/taskhive/internal/team/model"
)

// InviteResolver resolves an invite code to its owning team. Consumed
// codes still resolve, a joiner signals after the redemption landed.
type InviteResolver interface {
	FindByInviteCode(ctx context.Context, code string) (*teamModel.Team, *teamModel.Invite, error)
}

// Action is what the hub should do with one decoded signal: optionally
// attach the origin connection to a room, then fan the payload out to
// the rest of that room.
type Action struct {
	JoinTeam  string
	Broadcast string
	Payload   []byte
}

// userJoinedBroadcast is the outbound shape for a join announcement.
type userJoinedBroadcast struct {
	TeamID    string `json:"teamId"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Dispatch turns a decoded event into a hub action. It is transport
// free: the caller owns joining rooms and writing to peers.
func Dispatch(ctx context.Context, ev *Event, resolver InviteResolver, now time.Time) (*Action, error) {
	switch ev.Kind {
	case EventUserJoined:
		team, _, err := resolver.FindByInviteCode(ctx, ev.UserJoined.InviteCode)
		if err != nil {
			return nil, fmt.Errorf("resolving invite code: %w", err)
		}
		payload, err := encodeEnvelope(EventUserJoined, userJoinedBroadcast{
			TeamID:    team.ID,
			UserID:    ev.UserJoined.UserID,
			Username:  ev.UserJoined.Username,
			Message:   fmt.Sprintf("User %s joined the team", ev.UserJoined.Username),
			Timestamp: now.UTC().Format(time.RFC3339),
		})
		if err != nil {
			return nil, err
		}
		return &Action{JoinTeam: team.ID, Broadcast: team.ID, Payload: payload}, nil

	case EventTaskCreated, EventTaskUpdated, EventTaskDeleted, EventTaskCompleted:
		payload, err := encodeEnvelope(ev.Kind, ev.Task)
		if err != nil {
			return nil, err
		}
		return &Action{Broadcast: ev.Task.TeamID, Payload: payload}, nil

	case EventMemberLeft:
		payload, err := encodeEnvelope(ev.Kind, ev.MemberLeft)
		if err != nil {
			return nil, err
		}
		return &Action{Broadcast: ev.MemberLeft.TeamID, Payload: payload}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}
}
