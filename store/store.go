// Package store defines the persistence interface the handlers are
// wired against, with a MongoDB implementation for production and an
// in-memory implementation for tests.
package store

import (
	"context"
	"errors"
	"time"

	"taskpilot/models"
)

var (
	// ErrNotFound is returned when an id resolves to no document.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when a user email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

// TaskScope restricts a task query to what a non-admin may see: tasks
// assigned to UserID or belonging to one of ProjectIDs.
type TaskScope struct {
	UserID     string
	ProjectIDs []string
}

// TaskFilter narrows task queries. Zero-valued fields do not filter.
type TaskFilter struct {
	Status     string
	ProjectID  string
	AssignedTo string
	Scope      *TaskScope
}

// Store is the document-store surface used by the application. Only
// exact-match, $in, range and group-by-status style queries appear
// here; invariants are enforced by the callers before writes.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CountUsers(ctx context.Context) (int64, error)

	// Projects
	CreateProject(ctx context.Context, project *models.Project) error
	ProjectByID(ctx context.Context, id string) (*models.Project, error)
	UpdateProject(ctx context.Context, project *models.Project) error
	DeleteProject(ctx context.Context, id string) error
	ListProjects(ctx context.Context) ([]models.Project, error)
	ProjectsByMember(ctx context.Context, userID string) ([]models.Project, error)
	CountProjects(ctx context.Context) (int64, error)

	// Tasks
	CreateTask(ctx context.Context, task *models.Task) error
	TaskByID(ctx context.Context, id string) (*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	CountTasks(ctx context.Context, filter TaskFilter) (int64, error)
	TaskStatusCounts(ctx context.Context, filter TaskFilter) (models.TaskStatusCounts, error)
	// CountTasksDueBetween counts not-done tasks with a due date inside
	// [start, end], optionally restricted to one assignee.
	CountTasksDueBetween(ctx context.Context, assignedTo string, start, end time.Time) (int64, error)
	DeleteTasksByProject(ctx context.Context, projectID string) error

	// Comments
	CreateComment(ctx context.Context, comment *models.Comment) error
	CommentByID(ctx context.Context, id string) (*models.Comment, error)
	// CommentsByTask returns comments ordered by created_at ascending.
	CommentsByTask(ctx context.Context, taskID string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	DeleteCommentsByTask(ctx context.Context, taskID string) error
	DeleteCommentsByTasks(ctx context.Context, taskIDs []string) error

	// Notifications
	CreateNotifications(ctx context.Context, notifications []models.Notification) error
	NotificationByID(ctx context.Context, id string) (*models.Notification, error)
	// NotificationsByUser returns up to limit notifications ordered by
	// created_at descending.
	NotificationsByUser(ctx context.Context, userID string, limit int64, unreadOnly bool) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
	CountUnreadNotifications(ctx context.Context, userID string) (int64, error)
	DeleteNotificationsByLinkPrefix(ctx context.Context, prefix string) error
	// DeleteReadNotificationsBefore removes read notifications created
	// before cutoff and reports how many were removed.
	DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
