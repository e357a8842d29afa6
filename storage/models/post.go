package models

import "time"

type Post struct {
	ID        int64
	AuthorID  int64
	Title     string
	Body      string
	CreatedAt time.Time
}

type Comment struct {
	ID        int64
	AuthorID  int64
	PostID    int64
	Body      string
	CreatedAt time.Time
}
