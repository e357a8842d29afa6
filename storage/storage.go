package storage

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"social/storage/cache"
	"social/storage/db/queries"
	"social/storage/models"
	"social/utils"
)

// timelineCacheSize caps how much of a feed gets cached per user.
const timelineCacheSize = 500

type Manager struct {
	pool *pgxpool.Pool

	usersCache     cache.UsersCache
	timelinesCache cache.TimelinesCache
}

func NewManager(pool *pgxpool.Pool, redisConnection *redis.Client) *Manager {
	usersCacheExpiration := utils.IntFromString(
		os.Getenv("USERS_CACHE_EXPIRATION_MINUTES"), 1440,
	)
	timelinesCacheExpiration := utils.IntFromString(
		os.Getenv("TIMELINES_CACHE_EXPIRATION_MINUTES"), 60,
	)

	return &Manager{
		pool: pool,
		usersCache: cache.NewUsersCache(
			redisConnection,
			time.Duration(usersCacheExpiration)*time.Minute,
		),
		timelinesCache: cache.NewTimelinesCache(
			redisConnection,
			time.Duration(timelinesCacheExpiration)*time.Minute,
		),
	}
}

func (m *Manager) CreateUser(ctx context.Context, username, email, passwordHash, bio string) (*models.User, error) {
	return queries.CreateUser(ctx, m.pool, username, email, passwordHash, bio)
}

func (m *Manager) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return queries.GetUser(ctx, m.pool, id)
}

func (m *Manager) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return queries.GetUserByUsername(ctx, m.pool, username)
}

func (m *Manager) ListUsers(ctx context.Context) ([]models.User, error) {
	return queries.ListUsers(ctx, m.pool)
}

func (m *Manager) UpdateProfile(ctx context.Context, id int64, email, bio string) (*models.User, error) {
	return queries.UpdateProfile(ctx, m.pool, id, email, bio)
}

func (m *Manager) GetUserStatistics(ctx context.Context, id int64) (models.UserStatistics, error) {
	if stats, ok := m.usersCache.GetUserStatistics(ctx, id); ok {
		return stats, nil
	}
	stats, err := queries.GetUserStatistics(ctx, m.pool, id)
	if err != nil {
		return models.UserStatistics{}, err
	}
	m.usersCache.SetUserStatistics(ctx, stats)
	return stats, nil
}

func (m *Manager) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	return queries.CreateSession(ctx, m.pool, token, userID, expiresAt)
}

func (m *Manager) GetSession(ctx context.Context, token string) (*models.Session, error) {
	return queries.GetSession(ctx, m.pool, token)
}

func (m *Manager) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	return queries.DeleteExpiredSessions(ctx, m.pool, now)
}

// Follow adds the directed edge follower->followed and returns the followed
// user. Adding an existing edge is a no-op.
func (m *Manager) Follow(ctx context.Context, followerID, followedID int64) (*models.User, error) {
	if followerID == followedID {
		return nil, models.ErrSelfFollow
	}
	target, err := queries.GetUser(ctx, m.pool, followedID)
	if err != nil {
		return nil, err
	}

	created, err := queries.CreateFollow(ctx, m.pool, followerID, followedID)
	if err != nil {
		return nil, err
	}
	if created {
		m.timelinesCache.Invalidate(ctx, followerID)
		m.usersCache.UpdateUserStatistics(ctx, followerID, 1, 0, 0)
		m.usersCache.UpdateUserStatistics(ctx, followedID, 0, 1, 0)
	}
	return target, nil
}

func (m *Manager) Unfollow(ctx context.Context, followerID, followedID int64) (*models.User, error) {
	target, err := queries.GetUser(ctx, m.pool, followedID)
	if err != nil {
		return nil, err
	}

	deleted, err := queries.DeleteFollow(ctx, m.pool, followerID, followedID)
	if err != nil {
		return nil, err
	}
	if deleted {
		m.timelinesCache.Invalidate(ctx, followerID)
		m.usersCache.UpdateUserStatistics(ctx, followerID, -1, 0, 0)
		m.usersCache.UpdateUserStatistics(ctx, followedID, 0, -1, 0)
	}
	return target, nil
}

func (m *Manager) CreatePost(ctx context.Context, authorID int64, title, body string) (*models.Post, error) {
	author, err := queries.GetUser(ctx, m.pool, authorID)
	if err != nil {
		return nil, err
	}
	post, err := queries.CreatePost(ctx, m.pool, authorID, title, body)
	if err != nil {
		return nil, err
	}

	m.usersCache.UpdateUserStatistics(ctx, authorID, 0, 0, 1)

	// Fan out to the cached timelines of the author's followers
	followerIDs, err := queries.GetFollowerIDs(ctx, m.pool, authorID)
	if err != nil {
		log.Errorf("Error retrieving followers for fanout: %v", err)
		return post, nil
	}
	entry := models.FeedEntry{
		PostID:         post.ID,
		AuthorID:       post.AuthorID,
		AuthorUsername: author.Username,
		Title:          post.Title,
		Body:           post.Body,
		CreatedAt:      post.CreatedAt,
	}
	for _, followerID := range followerIDs {
		m.timelinesCache.AddPost(ctx, followerID, entry)
	}
	return post, nil
}

func (m *Manager) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	return queries.GetPost(ctx, m.pool, id)
}

func (m *Manager) ListPosts(ctx context.Context) ([]models.Post, error) {
	return queries.ListPosts(ctx, m.pool)
}

func (m *Manager) UpdatePost(ctx context.Context, id int64, title, body string) (*models.Post, error) {
	return queries.UpdatePost(ctx, m.pool, id, title, body)
}

func (m *Manager) DeletePost(ctx context.Context, id int64) error {
	post, err := queries.GetPost(ctx, m.pool, id)
	if err != nil {
		return err
	}
	if err := queries.DeletePost(ctx, m.pool, id); err != nil {
		return err
	}

	m.usersCache.UpdateUserStatistics(ctx, post.AuthorID, 0, 0, -1)

	// Drop cached timelines that may contain the deleted post
	followerIDs, err := queries.GetFollowerIDs(ctx, m.pool, post.AuthorID)
	if err != nil {
		log.Errorf("Error retrieving followers for invalidation: %v", err)
		return nil
	}
	for _, followerID := range followerIDs {
		m.timelinesCache.Invalidate(ctx, followerID)
	}
	return nil
}

func (m *Manager) CreateComment(ctx context.Context, authorID, postID int64, body string) (*models.Comment, error) {
	if _, err := queries.GetPost(ctx, m.pool, postID); err != nil {
		return nil, err
	}
	return queries.CreateComment(ctx, m.pool, authorID, postID, body)
}

func (m *Manager) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	return queries.GetComment(ctx, m.pool, id)
}

func (m *Manager) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	return queries.ListComments(ctx, m.pool, postID)
}

func (m *Manager) UpdateComment(ctx context.Context, id int64, body string) (*models.Comment, error) {
	return queries.UpdateComment(ctx, m.pool, id, body)
}

func (m *Manager) DeleteComment(ctx context.Context, id int64) error {
	return queries.DeleteComment(ctx, m.pool, id)
}

// LikePost creates the like and the notification to the post's author in one
// transaction. The unique constraint on (user_id, post_id) rejects duplicates
// regardless of concurrent requests.
func (m *Manager) LikePost(ctx context.Context, userID, postID int64) (*models.Notification, error) {
	post, err := queries.GetPost(ctx, m.pool, postID)
	if err != nil {
		return nil, err
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := queries.CreateLike(ctx, tx, userID, postID); err != nil {
		return nil, err
	}
	notification, err := queries.CreateNotification(
		ctx, tx, post.AuthorID, userID, models.VerbLikedPost, postID,
	)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return notification, nil
}

func (m *Manager) UnlikePost(ctx context.Context, userID, postID int64) error {
	if _, err := queries.GetPost(ctx, m.pool, postID); err != nil {
		return err
	}
	// Removing an absent like is a no-op
	_, err := queries.DeleteLike(ctx, m.pool, userID, postID)
	return err
}

func (m *Manager) GetFeed(
	ctx context.Context,
	userID int64,
	before time.Time,
	beforeID int64,
	limit int,
) ([]models.FeedEntry, error) {
	// Only first-page reads hit the cache; cursor continuations go straight
	// to the database
	if beforeID == 0 && limit <= timelineCacheSize {
		if entries, ok := m.timelinesCache.GetTimeline(ctx, userID); ok {
			return trimFeedPage(entries, before, limit), nil
		}
		entries, err := queries.GetFeedPage(ctx, m.pool, userID, before, 0, timelineCacheSize)
		if err != nil {
			return nil, err
		}
		m.timelinesCache.SetTimeline(ctx, userID, entries)
		return trimFeedPage(entries, before, limit), nil
	}

	return queries.GetFeedPage(ctx, m.pool, userID, before, beforeID, limit)
}

func (m *Manager) ListNotifications(ctx context.Context, recipientID int64) ([]models.Notification, error) {
	return queries.ListNotifications(ctx, m.pool, recipientID)
}

func (m *Manager) DeleteOldNotifications(ctx context.Context, before time.Time) error {
	return queries.DeleteOldNotifications(ctx, m.pool, before)
}

func trimFeedPage(entries []models.FeedEntry, before time.Time, limit int) []models.FeedEntry {
	page := make([]models.FeedEntry, 0, limit)
	for _, entry := range entries {
		if !entry.CreatedAt.After(before) {
			page = append(page, entry)
		}
		if len(page) == limit {
			break
		}
	}
	return page
}
