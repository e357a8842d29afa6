package models

import "time"

// Follow is a directed edge: FollowerID's feed includes FollowedID's posts.
type Follow struct {
	FollowerID int64
	FollowedID int64
	CreatedAt  time.Time
}
