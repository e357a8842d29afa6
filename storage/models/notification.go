package models

import "time"

const VerbLikedPost = "liked your post"

// Notification is created once and never mutated.
type Notification struct {
	ID          int64     `json:"id"`
	RecipientID int64     `json:"recipient_id"`
	ActorID     int64     `json:"actor_id"`
	Verb        string    `json:"verb"`
	PostID      int64     `json:"post_id"`
	CreatedAt   time.Time `json:"created_at"`
}
