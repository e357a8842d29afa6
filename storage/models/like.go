package models

import "time"

// Like records that a user liked a post. At most one per (user, post) pair,
// enforced by the store.
type Like struct {
	ID        int64
	UserID    int64
	PostID    int64
	CreatedAt time.Time
}
