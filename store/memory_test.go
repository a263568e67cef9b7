package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpilot/models"
)

func TestMemoryDuplicateEmail(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	require.NoError(t, mem.CreateUser(ctx, &models.User{ID: "u1", Email: "a@example.com"}))
	err := mem.CreateUser(ctx, &models.User{ID: "u2", Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	count, err := mem.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryTaskFilterScope(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	tasks := []models.Task{
		{ID: "t1", ProjectID: "p1", AssignedTo: "me", Status: models.StatusTodo},
		{ID: "t2", ProjectID: "p2", AssignedTo: "other", Status: models.StatusDone},
		{ID: "t3", ProjectID: "p3", AssignedTo: "other", Status: models.StatusTodo},
	}
	for i := range tasks {
		tasks[i].CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, mem.CreateTask(ctx, &tasks[i]))
	}

	// Scoped to "me": assigned tasks plus tasks in p2
	scoped, err := mem.ListTasks(ctx, TaskFilter{
		Scope: &TaskScope{UserID: "me", ProjectIDs: []string{"p2"}},
	})
	require.NoError(t, err)
	require.Len(t, scoped, 2)
	assert.Equal(t, "t1", scoped[0].ID)
	assert.Equal(t, "t2", scoped[1].ID)

	// Empty scope matches nothing
	none, err := mem.ListTasks(ctx, TaskFilter{Scope: &TaskScope{UserID: "nobody"}})
	require.NoError(t, err)
	assert.Empty(t, none)

	// Status filter composes with scope
	todo, err := mem.ListTasks(ctx, TaskFilter{
		Status: models.StatusTodo,
		Scope:  &TaskScope{UserID: "me", ProjectIDs: []string{"p2"}},
	})
	require.NoError(t, err)
	require.Len(t, todo, 1)
	assert.Equal(t, "t1", todo[0].ID)
}

func TestMemoryTaskStatusCounts(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	statuses := []string{models.StatusTodo, models.StatusTodo, models.StatusInProgress, models.StatusDone}
	for i, status := range statuses {
		require.NoError(t, mem.CreateTask(ctx, &models.Task{
			ID: string(rune('a' + i)), ProjectID: "p1", Status: status,
		}))
	}
	require.NoError(t, mem.CreateTask(ctx, &models.Task{ID: "z", ProjectID: "p2", Status: models.StatusDone}))

	counts, err := mem.TaskStatusCounts(ctx, TaskFilter{ProjectID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Todo)
	assert.Equal(t, int64(1), counts.InProgress)
	assert.Equal(t, int64(1), counts.Done)
	assert.Equal(t, int64(4), counts.Total())
}

func TestMemoryCountTasksDueBetween(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Nanosecond)
	inside := start.Add(12 * time.Hour)
	outside := start.Add(48 * time.Hour)

	require.NoError(t, mem.CreateTask(ctx, &models.Task{ID: "due", AssignedTo: "me", Status: models.StatusTodo, DueDate: &inside}))
	require.NoError(t, mem.CreateTask(ctx, &models.Task{ID: "done", AssignedTo: "me", Status: models.StatusDone, DueDate: &inside}))
	require.NoError(t, mem.CreateTask(ctx, &models.Task{ID: "later", AssignedTo: "me", Status: models.StatusTodo, DueDate: &outside}))
	require.NoError(t, mem.CreateTask(ctx, &models.Task{ID: "nodate", AssignedTo: "me", Status: models.StatusTodo}))

	count, err := mem.CountTasksDueBetween(ctx, "me", start, end)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	all, err := mem.CountTasksDueBetween(ctx, "", start, end)
	require.NoError(t, err)
	assert.Equal(t, int64(1), all)
}

func TestMemoryNotificationsOrderAndLimit(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	base := time.Now().UTC()
	batch := []models.Notification{
		{ID: "n1", UserID: "u1", CreatedAt: base},
		{ID: "n2", UserID: "u1", CreatedAt: base.Add(time.Second), IsRead: true},
		{ID: "n3", UserID: "u1", CreatedAt: base.Add(2 * time.Second)},
		{ID: "n4", UserID: "u2", CreatedAt: base.Add(3 * time.Second)},
	}
	require.NoError(t, mem.CreateNotifications(ctx, batch))

	all, err := mem.NotificationsByUser(ctx, "u1", 50, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "n3", all[0].ID)
	assert.Equal(t, "n1", all[2].ID)

	limited, err := mem.NotificationsByUser(ctx, "u1", 2, false)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	unread, err := mem.NotificationsByUser(ctx, "u1", 50, true)
	require.NoError(t, err)
	require.Len(t, unread, 2)
	for _, n := range unread {
		assert.False(t, n.IsRead)
	}
}

func TestMemoryMarkRead(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	require.NoError(t, mem.CreateNotifications(ctx, []models.Notification{
		{ID: "n1", UserID: "u1"},
		{ID: "n2", UserID: "u1"},
		{ID: "n3", UserID: "u2"},
	}))

	require.NoError(t, mem.MarkNotificationRead(ctx, "n1"))
	count, err := mem.CountUnreadNotifications(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, mem.MarkAllNotificationsRead(ctx, "u1"))
	count, err = mem.CountUnreadNotifications(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// u2 untouched
	count, err = mem.CountUnreadNotifications(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.ErrorIs(t, mem.MarkNotificationRead(ctx, "missing"), ErrNotFound)
}

func TestMemoryDeleteNotificationsByLinkPrefix(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	require.NoError(t, mem.CreateNotifications(ctx, []models.Notification{
		{ID: "n1", UserID: "u1", Link: "/projects/p1"},
		{ID: "n2", UserID: "u2", Link: "/projects/p1"},
		{ID: "n3", UserID: "u1", Link: "/projects/p2"},
	}))

	require.NoError(t, mem.DeleteNotificationsByLinkPrefix(ctx, "/projects/p1"))

	left, err := mem.NotificationsByUser(ctx, "u1", 50, false)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "n3", left[0].ID)

	gone, err := mem.NotificationsByUser(ctx, "u2", 50, false)
	require.NoError(t, err)
	assert.Empty(t, gone)
}

func TestMemoryDeleteReadNotificationsBefore(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	now := time.Now().UTC()
	old := now.Add(-40 * 24 * time.Hour)
	require.NoError(t, mem.CreateNotifications(ctx, []models.Notification{
		{ID: "n1", UserID: "u1", CreatedAt: old, IsRead: true},
		{ID: "n2", UserID: "u1", CreatedAt: old},
		{ID: "n3", UserID: "u1", CreatedAt: now, IsRead: true},
	}))

	deleted, err := mem.DeleteReadNotificationsBefore(ctx, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// Old-but-unread and recent-but-read both survive.
	left, err := mem.NotificationsByUser(ctx, "u1", 50, false)
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.Equal(t, "n3", left[0].ID)
	assert.Equal(t, "n2", left[1].ID)
}

func TestMemoryCommentCascade(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	require.NoError(t, mem.CreateComment(ctx, &models.Comment{ID: "c1", TaskID: "t1"}))
	require.NoError(t, mem.CreateComment(ctx, &models.Comment{ID: "c2", TaskID: "t2"}))
	require.NoError(t, mem.CreateComment(ctx, &models.Comment{ID: "c3", TaskID: "t3"}))

	require.NoError(t, mem.DeleteCommentsByTasks(ctx, []string{"t1", "t2"}))

	left, err := mem.CommentsByTask(ctx, "t3")
	require.NoError(t, err)
	assert.Len(t, left, 1)
	for _, taskID := range []string{"t1", "t2"} {
		comments, err := mem.CommentsByTask(ctx, taskID)
		require.NoError(t, err)
		assert.Empty(t, comments)
	}
}
