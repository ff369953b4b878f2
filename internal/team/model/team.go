package model

import (
	"time"

	"gorm.io/gorm"
)

// Team represents a team entity in the system.
// Matches the teams table schema.
type Team struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(36)"                                                          json:"id"`
	Name      string    `gorm:"column:name;type:varchar(255);not null;uniqueIndex:idx_teams_creator_name"                      json:"name"`
	CreatorID string    `gorm:"column:creator_id;type:varchar(255);not null;uniqueIndex:idx_teams_creator_name"                json:"creator_id"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;not null"                                      json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz;not null"                                      json:"-"`

	Members []TeamMember `gorm:"foreignKey:TeamID;references:ID" json:"-"`
	Invites []Invite     `gorm:"foreignKey:TeamID;references:ID" json:"-"`
}

// TableName specifies the table name for GORM.
func (Team) TableName() string {
	return "teams"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (t *Team) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return nil
}

// HasMember reports whether the given user belongs to the team.
func (t *Team) HasMember(userID string) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// MemberIDs returns the team's member user ids in join order.
func (t *Team) MemberIDs() []string {
	ids := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

// TeamMember represents a single membership row.
// Matches the team_members table schema.
type TeamMember struct {
	ID       int64     `gorm:"primaryKey;column:id"                                                                                json:"id"`
	TeamID   string    `gorm:"column:team_id;type:varchar(36);not null;uniqueIndex:idx_members_team_user"                          json:"team_id"`
	UserID   string    `gorm:"column:user_id;type:varchar(255);not null;uniqueIndex:idx_members_team_user;index:idx_members_user_id" json:"user_id"`
	JoinedAt time.Time `gorm:"column:joined_at;type:timestamptz;not null"                                            json:"joined_at"`
}

// TableName specifies the table name for GORM.
func (TeamMember) TableName() string {
	return "team_members"
}

// Invite represents a time-limited, single-use, email-bound invite code.
// Matches the invites table schema. A redeemed invite keeps its row with
// consumed_at set so the owning team stays resolvable from the code.
type Invite struct {
	Code       string     `gorm:"primaryKey;column:code;type:varchar(64)"                            json:"code"`
	TeamID     string     `gorm:"column:team_id;type:varchar(36);not null;index:idx_invites_team_id" json:"team_id"`
	Email      string     `gorm:"column:email;type:varchar(255);not null"                            json:"email"`
	ExpiresAt  time.Time  `gorm:"column:expires_at;type:timestamptz;not null"                        json:"expires_at"`
	ConsumedAt *time.Time `gorm:"column:consumed_at;type:timestamptz"                                json:"-"`
	CreatedAt  time.Time  `gorm:"column:created_at;type:timestamptz;not null"          json:"-"`
}

// TableName specifies the table name for GORM.
func (Invite) TableName() string {
	return "invites"
}

// Valid reports whether the invite can still be redeemed at the given time.
func (i *Invite) Valid(now time.Time) bool {
	return i.ConsumedAt == nil && now.Before(i.ExpiresAt)
}
