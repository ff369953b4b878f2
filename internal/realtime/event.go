// Package realtime implements the websocket broadcaster that fans team
// events out to connected members.
package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Event kinds exchanged over a websocket connection.
const (
	EventUserJoined    = "team:user:joined"
	EventTaskCreated   = "task:created"
	EventTaskUpdated   = "task:updated"
	EventTaskDeleted   = "task:deleted"
	EventTaskCompleted = "task:completed"
	EventMemberLeft    = "team:member:left"
)

// ErrUnknownEvent is returned when an inbound envelope carries an
// unrecognized event kind.
var ErrUnknownEvent = errors.New("unknown event kind")

// Envelope is the wire frame for every inbound and outbound message.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// UserJoinedPayload signals that the sender redeemed an invite code and
// should be attached to the owning team's room.
type UserJoinedPayload struct {
	InviteCode string `json:"inviteCode"`
	UserID     string `json:"userId"`
	Username   string `json:"username"`
}

// TaskPayload carries a task mutation to the rest of a team.
type TaskPayload struct {
	TeamID string          `json:"teamId"`
	Actor  string          `json:"actor"`
	Task   json.RawMessage `json:"task,omitempty"`
}

// MemberLeftPayload announces a member leaving a team.
type MemberLeftPayload struct {
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
	Actor    string `json:"actor"`
}

// Event is a decoded inbound signal. Exactly one payload field is set,
// matching Kind.
type Event struct {
	Kind       string
	UserJoined *UserJoinedPayload
	Task       *TaskPayload
	MemberLeft *MemberLeftPayload
}

// DecodeEvent parses and validates one inbound frame. A frame with an
// unknown kind or missing required fields is an error; callers drop it
// with a warning rather than failing the connection.
func DecodeEvent(raw []byte) (*Event, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch env.Event {
	case EventUserJoined:
		var p UserJoinedPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		if p.InviteCode == "" || p.UserID == "" || p.Username == "" {
			return nil, fmt.Errorf("%s requires inviteCode, userId and username", env.Event)
		}
		return &Event{Kind: env.Event, UserJoined: &p}, nil

	case EventTaskCreated, EventTaskUpdated, EventTaskDeleted, EventTaskCompleted:
		var p TaskPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		if p.TeamID == "" || p.Actor == "" {
			return nil, fmt.Errorf("%s requires teamId and actor", env.Event)
		}
		return &Event{Kind: env.Event, Task: &p}, nil

	case EventMemberLeft:
		var p MemberLeftPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		if p.TeamID == "" || p.TeamName == "" || p.Actor == "" {
			return nil, fmt.Errorf("%s requires teamId, teamName and actor", env.Event)
		}
		return &Event{Kind: env.Event, MemberLeft: &p}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}
}

// encodeEnvelope marshals an outbound frame.
func encodeEnvelope(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
