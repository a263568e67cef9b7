package worker

import (
	"context"
	"log"
	"time"

	"taskpilot/store"
)

// CleanupWorker periodically deletes read notifications older than the
// retention window so the collection does not grow without bound.
// Unread notifications are never touched.
type CleanupWorker struct {
	store     store.Store
	logger    *log.Logger
	interval  time.Duration
	retention time.Duration
}

func NewCleanupWorker(s store.Store, logger *log.Logger, interval, retention time.Duration) *CleanupWorker {
	return &CleanupWorker{
		store:     s,
		logger:    logger,
		interval:  interval,
		retention: retention,
	}
}

func (cw *CleanupWorker) Start(ctx context.Context) {
	cw.logger.Println("Starting notification cleanup worker...")
	ticker := time.NewTicker(cw.interval)

	cw.Sweep(ctx)
	for {
		select {
		case <-ticker.C:
			cw.Sweep(ctx)
		case <-ctx.Done():
			cw.logger.Println("Stopping notification cleanup worker...")
			ticker.Stop()
			return
		}
	}
}

// Sweep runs one cleanup pass.
func (cw *CleanupWorker) Sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-cw.retention)
	deleted, err := cw.store.DeleteReadNotificationsBefore(ctx, cutoff)
	if err != nil {
		cw.logger.Printf("Failed to clean up notifications: %v", err)
		return
	}
	if deleted > 0 {
		cw.logger.Printf("Deleted %d read notifications older than %s", deleted, cutoff.Format(time.RFC3339))
	}
}
