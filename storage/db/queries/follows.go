package queries

import (
	"context"

	"social/storage/db"
)

// CreateFollow inserts the directed edge follower->followed. Inserting an
// edge that already exists is a no-op; the returned bool reports whether a
// new edge was created.
func CreateFollow(ctx context.Context, dbtx db.DBTX, followerID, followedID int64) (bool, error) {
	tag, err := dbtx.Exec(
		ctx,
		`INSERT INTO follows (follower_id, followed_id) VALUES ($1, $2)
		 ON CONFLICT (follower_id, followed_id) DO NOTHING`,
		followerID, followedID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func DeleteFollow(ctx context.Context, dbtx db.DBTX, followerID, followedID int64) (bool, error) {
	tag, err := dbtx.Exec(
		ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2`,
		followerID, followedID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func GetFollowerIDs(ctx context.Context, dbtx db.DBTX, followedID int64) ([]int64, error) {
	rows, err := dbtx.Query(
		ctx,
		`SELECT follower_id FROM follows WHERE followed_id = $1`,
		followedID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
