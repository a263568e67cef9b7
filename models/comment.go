package models

import "time"

// Comment is attached to a task. Immutable once created except for
// deletion.
type Comment struct {
	ID        string    `bson:"comment_id" json:"comment_id"`
	TaskID    string    `bson:"task_id" json:"task_id"`
	AuthorID  string    `bson:"author_id" json:"author_id"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
