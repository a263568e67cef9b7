package worker

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpilot/models"
	"taskpilot/store"
)

func TestSweepDeletesOnlyOldReadNotifications(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, mem.CreateNotifications(ctx, []models.Notification{
		{ID: "old-read", UserID: "u1", CreatedAt: now.Add(-48 * time.Hour), IsRead: true},
		{ID: "old-unread", UserID: "u1", CreatedAt: now.Add(-48 * time.Hour)},
		{ID: "fresh-read", UserID: "u1", CreatedAt: now, IsRead: true},
	}))

	cw := NewCleanupWorker(mem, log.New(io.Discard, "", 0), time.Hour, 24*time.Hour)
	cw.Sweep(ctx)

	left, err := mem.NotificationsByUser(ctx, "u1", 50, false)
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.Equal(t, "fresh-read", left[0].ID)
	assert.Equal(t, "old-unread", left[1].ID)
}

func TestStartStopsOnContextCancel(t *testing.T) {
	mem := store.NewMemory()
	cw := NewCleanupWorker(mem, log.New(io.Discard, "", 0), time.Hour, 24*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cw.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}
