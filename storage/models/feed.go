package models

import "time"

// FeedEntry is a post as it appears in a user's feed, carrying the author's
// username so a page can be rendered without further lookups.
type FeedEntry struct {
	PostID         int64     `json:"post_id"`
	AuthorID       int64     `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}
