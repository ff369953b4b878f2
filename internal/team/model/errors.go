package model

import "errors"

var (
	// ErrTeamExists indicates that the creator already owns a team with that name.
	ErrTeamExists = errors.New("team with this name already exists for this creator")
	// ErrTeamNotFound indicates that the requested team does not exist.
	ErrTeamNotFound = errors.New("team not found")
	// ErrInvalidTeamName indicates that the provided team name is invalid (e.g., empty).
	ErrInvalidTeamName = errors.New("invalid team name")
	// ErrNotAMember indicates that the caller does not belong to the team.
	ErrNotAMember = errors.New("user is not a member of this team")
	// ErrNotCreator indicates that the operation is restricted to the team creator.
	ErrNotCreator = errors.New("only the team creator can perform this action")
	// ErrCreatorCannotLeave indicates that the creator tried to leave their own team.
	ErrCreatorCannotLeave = errors.New("team creator cannot leave the team")
	// ErrAlreadyMember indicates that the user already belongs to the team.
	ErrAlreadyMember = errors.New("user is already a member of this team")
	// ErrInviteInvalid covers unknown, expired and already-consumed invite codes.
	// The three cases are deliberately indistinguishable to the caller.
	ErrInviteInvalid = errors.New("invalid or expired invite code")
	// ErrInviteWrongEmail indicates the invite is bound to a different email.
	// Surfaced with the same caller-visible class as ErrInviteInvalid.
	ErrInviteWrongEmail = errors.New("invite code is not valid for this user")
	// ErrLeaveOtherMember indicates an attempt to remove a member other than oneself.
	ErrLeaveOtherMember = errors.New("you can only leave a team as yourself")
)
