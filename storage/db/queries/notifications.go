package queries

import (
	"context"
	"time"

	"social/storage/db"
	"social/storage/models"
)

func CreateNotification(
	ctx context.Context,
	dbtx db.DBTX,
	recipientID, actorID int64,
	verb string,
	postID int64,
) (*models.Notification, error) {
	var n models.Notification
	err := dbtx.QueryRow(
		ctx,
		`INSERT INTO notifications (recipient_id, actor_id, verb, post_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, recipient_id, actor_id, verb, post_id, created_at`,
		recipientID, actorID, verb, postID,
	).Scan(&n.ID, &n.RecipientID, &n.ActorID, &n.Verb, &n.PostID, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func ListNotifications(ctx context.Context, dbtx db.DBTX, recipientID int64) ([]models.Notification, error) {
	rows, err := dbtx.Query(
		ctx,
		`SELECT id, recipient_id, actor_id, verb, post_id, created_at
		 FROM notifications WHERE recipient_id = $1
		 ORDER BY created_at DESC, id DESC`,
		recipientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.ActorID, &n.Verb, &n.PostID, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func DeleteOldNotifications(ctx context.Context, dbtx db.DBTX, before time.Time) error {
	_, err := dbtx.Exec(ctx, `DELETE FROM notifications WHERE created_at < $1`, before)
	return err
}
