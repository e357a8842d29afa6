package tasks

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"social/storage"
)

const notificationRetention = 30 * 24 * time.Hour

// CleanOldData periodically removes expired sessions and notifications older
// than the retention window. It never returns.
func CleanOldData(store storage.Store) {
	for {
		select {
		case <-time.After(1 * time.Hour):
			ctx := context.Background()
			now := time.Now()

			if err := store.DeleteExpiredSessions(ctx, now); err != nil {
				log.Errorf("Error cleaning expired sessions: %v", err)
			}
			if err := store.DeleteOldNotifications(ctx, now.Add(-notificationRetention)); err != nil {
				log.Errorf("Error cleaning old notifications: %v", err)
			}
		}
	}
}
