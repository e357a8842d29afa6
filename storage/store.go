package storage

import (
	"context"
	"time"

	"social/storage/models"
)

// Store is the persistence boundary. Handlers and feed composition receive a
// Store explicitly instead of reaching for shared state; *Manager is the
// postgres/redis implementation and memory.Store backs the tests.
type Store interface {
	CreateUser(ctx context.Context, username, email, passwordHash, bio string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id int64, email, bio string) (*models.User, error)
	GetUserStatistics(ctx context.Context, id int64) (models.UserStatistics, error)

	CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) error

	Follow(ctx context.Context, followerID, followedID int64) (*models.User, error)
	Unfollow(ctx context.Context, followerID, followedID int64) (*models.User, error)

	CreatePost(ctx context.Context, authorID int64, title, body string) (*models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	UpdatePost(ctx context.Context, id int64, title, body string) (*models.Post, error)
	DeletePost(ctx context.Context, id int64) error

	CreateComment(ctx context.Context, authorID, postID int64, body string) (*models.Comment, error)
	GetComment(ctx context.Context, id int64) (*models.Comment, error)
	ListComments(ctx context.Context, postID int64) ([]models.Comment, error)
	UpdateComment(ctx context.Context, id int64, body string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id int64) error

	LikePost(ctx context.Context, userID, postID int64) (*models.Notification, error)
	UnlikePost(ctx context.Context, userID, postID int64) error

	GetFeed(ctx context.Context, userID int64, before time.Time, beforeID int64, limit int) ([]models.FeedEntry, error)

	ListNotifications(ctx context.Context, recipientID int64) ([]models.Notification, error)
	DeleteOldNotifications(ctx context.Context, before time.Time) error
}
