// Package model provides domain models for the notification module.
package model

import "time"

// Notification represents one append-only team activity record.
// Matches the notifications table schema. Rows are never updated.
type Notification struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(36)"                                        json:"id"`
	TeamID    string    `gorm:"column:team_id;type:varchar(36);not null;index:idx_notifications_team_id"     json:"team_id"`
	Message   string    `gorm:"column:message;type:text;not null"                                            json:"message"`
	Timestamp time.Time `gorm:"column:timestamp;type:timestamptz;not null"                     json:"timestamp"`
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}
