package models

import (
	"strings"
	"time"
)

// Task statuses.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// ValidStatus reports whether s is one of the three task statuses.
func ValidStatus(s string) bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// HumanStatus renders a status for notification messages:
// "in_progress" becomes "In Progress".
func HumanStatus(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Task is a unit of work inside a project. AssignedTo is empty when the
// task is unassigned.
type Task struct {
	ID          string     `bson:"task_id" json:"task_id"`
	ProjectID   string     `bson:"project_id" json:"project_id"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description" json:"description"`
	AssignedTo  string     `bson:"assigned_to" json:"assigned_to"`
	Status      string     `bson:"status" json:"status"`
	DueDate     *time.Time `bson:"due_date,omitempty" json:"due_date"`
	CreatedBy   string     `bson:"created_by" json:"created_by"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// TaskStatusCounts holds per-status task counts. All three buckets are
// always reported, zero or not.
type TaskStatusCounts struct {
	Todo       int64 `json:"todo"`
	InProgress int64 `json:"in_progress"`
	Done       int64 `json:"done"`
}

// Total sums the three buckets.
func (c TaskStatusCounts) Total() int64 {
	return c.Todo + c.InProgress + c.Done
}
