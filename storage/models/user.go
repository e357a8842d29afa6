package models

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Bio          string
	CreatedAt    time.Time
}

type UserStatistics struct {
	ID             int64
	FollowersCount int64
	FollowsCount   int64
	PostsCount     int64
}
