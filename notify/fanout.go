// Package notify turns state transitions into notification records.
// Fanout runs after the primary mutation is durable; persistence
// failures are logged and never propagated, so a caller's success
// response is unaffected (the two writes are not atomic).
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"taskpilot/models"
	"taskpilot/store"
)

// Fanout computes target-user sets for triggering events and persists
// one notification per target. Repeated identical triggers always
// produce new records; there is no dedup.
type Fanout struct {
	store store.Store
}

// New returns a Fanout writing through the given store.
func New(s store.Store) *Fanout {
	return &Fanout{store: s}
}

// MembersAdded notifies users newly added to a project's team. The
// caller passes only the ids absent from the previous membership.
func (f *Fanout) MembersAdded(ctx context.Context, actorID string, project *models.Project, added []string) {
	notifications := []models.Notification{}
	for _, memberID := range added {
		if memberID == actorID {
			continue
		}
		notifications = append(notifications, record(
			memberID,
			models.NotificationProjectAdded,
			fmt.Sprintf("You have been added to project %q", project.Title),
			project.ID,
		))
	}
	f.persist(ctx, models.NotificationProjectAdded, notifications)
}

// TaskAssigned notifies the task's assignee unless they assigned it to
// themselves.
func (f *Fanout) TaskAssigned(ctx context.Context, actorID string, project *models.Project, task *models.Task) {
	if task.AssignedTo == "" || task.AssignedTo == actorID {
		return
	}
	notifications := []models.Notification{record(
		task.AssignedTo,
		models.NotificationTaskAssigned,
		fmt.Sprintf("You have been assigned to task %q in project %q", task.Title, project.Title),
		project.ID,
	)}
	f.persist(ctx, models.NotificationTaskAssigned, notifications)
}

// StatusChanged notifies the task's stakeholders. task carries the
// pre-update assignee; newStatus is the value just written.
func (f *Fanout) StatusChanged(ctx context.Context, actorID string, project *models.Project, task *models.Task, newStatus string) {
	message := fmt.Sprintf("Task %q status changed to %s", task.Title, models.HumanStatus(newStatus))
	notifications := []models.Notification{}
	for _, userID := range stakeholders(project, task, actorID) {
		notifications = append(notifications, record(
			userID, models.NotificationStatusChanged, message, project.ID))
	}
	f.persist(ctx, models.NotificationStatusChanged, notifications)
}

// CommentAdded notifies the task's stakeholders about a new comment.
func (f *Fanout) CommentAdded(ctx context.Context, actor *models.User, project *models.Project, task *models.Task) {
	message := fmt.Sprintf("%s commented on task %q", actor.FullName, task.Title)
	notifications := []models.Notification{}
	for _, userID := range stakeholders(project, task, actor.ID) {
		notifications = append(notifications, record(
			userID, models.NotificationCommentAdded, message, project.ID))
	}
	f.persist(ctx, models.NotificationCommentAdded, notifications)
}

// stakeholders is the target pool for task-level events: team members,
// the project creator and the assignee, minus the actor.
func stakeholders(project *models.Project, task *models.Task, actorID string) []string {
	seen := map[string]bool{}
	targets := []string{}
	add := func(id string) {
		if id == "" || id == actorID || seen[id] {
			return
		}
		seen[id] = true
		targets = append(targets, id)
	}
	for _, memberID := range project.TeamMembers {
		add(memberID)
	}
	add(project.CreatedBy)
	add(task.AssignedTo)
	return targets
}

func record(userID, notificationType, message, projectID string) models.Notification {
	return models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		Type:      notificationType,
		Link:      "/projects/" + projectID,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}
}

func (f *Fanout) persist(ctx context.Context, notificationType string, notifications []models.Notification) {
	if len(notifications) == 0 {
		return
	}
	if err := f.store.CreateNotifications(ctx, notifications); err != nil {
		logrus.WithFields(logrus.Fields{
			"type":       notificationType,
			"recipients": len(notifications),
		}).WithError(err).Warn("Failed to persist notifications")
	}
}
