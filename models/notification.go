package models

import "time"

// Notification types.
const (
	NotificationProjectAdded  = "project_added"
	NotificationTaskAssigned  = "task_assigned"
	NotificationStatusChanged = "status_changed"
	NotificationCommentAdded  = "comment_added"
)

// Notification is created only by the fanout step, never directly by a
// user action. The only user-driven mutation is marking it read.
type Notification struct {
	ID        string    `bson:"notification_id" json:"notification_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Message   string    `bson:"message" json:"message"`
	Type      string    `bson:"type" json:"type"`
	Link      string    `bson:"link" json:"link"`
	IsRead    bool      `bson:"is_read" json:"is_read"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
