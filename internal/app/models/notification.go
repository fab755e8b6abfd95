package models

import "time"

// NotificationType tags the action that produced a notification
type NotificationType string

const (
	NotificationTypeLike    NotificationType = "like"
	NotificationTypeComment NotificationType = "comment"
	NotificationTypeJoin    NotificationType = "join"
	NotificationTypeSystem  NotificationType = "system"
)

// Notification represents a per-user notification
type Notification struct {
	ID        int64            `json:"id" db:"id"`
	UserID    int64            `json:"-" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Message   string           `json:"message" db:"message"`
	Read      bool             `json:"read" db:"read"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}
