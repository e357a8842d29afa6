package queries

import (
	"context"

	"social/storage/db"
	"social/storage/models"
)

// CreateLike relies on the likes_user_post_key unique constraint instead of a
// check-then-act existence lookup, so concurrent identical requests cannot
// both succeed.
func CreateLike(ctx context.Context, dbtx db.DBTX, userID, postID int64) (*models.Like, error) {
	var like models.Like
	err := dbtx.QueryRow(
		ctx,
		`INSERT INTO likes (user_id, post_id) VALUES ($1, $2)
		 RETURNING id, user_id, post_id, created_at`,
		userID, postID,
	).Scan(&like.ID, &like.UserID, &like.PostID, &like.CreatedAt)
	if isUniqueViolation(err, "likes_user_post_key") {
		return nil, models.ErrDuplicateLike
	}
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func DeleteLike(ctx context.Context, dbtx db.DBTX, userID, postID int64) (bool, error) {
	tag, err := dbtx.Exec(
		ctx,
		`DELETE FROM likes WHERE user_id = $1 AND post_id = $2`,
		userID, postID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
