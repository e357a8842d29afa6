// Package memory provides an in-memory Store implementation with the same
// semantics as the postgres-backed Manager. It backs the test suites.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"social/storage/models"
)

type followKey struct {
	followerID int64
	followedID int64
}

type likeKey struct {
	userID int64
	postID int64
}

type Store struct {
	mu sync.Mutex

	// Now supplies creation timestamps; tests may replace it with a
	// deterministic clock.
	Now func() time.Time

	users         map[int64]*models.User
	userIDs       []int64
	sessions      map[string]*models.Session
	follows       map[followKey]models.Follow
	posts         map[int64]*models.Post
	postIDs       []int64
	comments      map[int64]*models.Comment
	commentIDs    []int64
	likes         map[likeKey]models.Like
	notifications []models.Notification

	nextID int64
}

func New() *Store {
	return &Store{
		Now:      time.Now,
		users:    make(map[int64]*models.User),
		sessions: make(map[string]*models.Session),
		follows:  make(map[followKey]models.Follow),
		posts:    make(map[int64]*models.Post),
		comments: make(map[int64]*models.Comment),
		likes:    make(map[likeKey]models.Like),
	}
}

func (s *Store) CreateUser(_ context.Context, username, email, passwordHash, bio string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return nil, models.ErrDuplicateUsername
		}
	}
	s.nextID++
	user := &models.User{
		ID:           s.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Bio:          bio,
		CreatedAt:    s.Now(),
	}
	s.users[user.ID] = user
	s.userIDs = append(s.userIDs, user.ID)
	copied := *user
	return &copied, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getUser(id)
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]models.User, 0, len(s.userIDs))
	for _, id := range s.userIDs {
		users = append(users, *s.users[id])
	}
	return users, nil
}

func (s *Store) UpdateProfile(_ context.Context, id int64, email, bio string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	user.Email = email
	user.Bio = bio
	copied := *user
	return &copied, nil
}

func (s *Store) GetUserStatistics(_ context.Context, id int64) (models.UserStatistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := models.UserStatistics{ID: id}
	for key := range s.follows {
		if key.followedID == id {
			stats.FollowersCount++
		}
		if key.followerID == id {
			stats.FollowsCount++
		}
	}
	for _, p := range s.posts {
		if p.AuthorID == id {
			stats.PostsCount++
		}
	}
	return stats, nil
}

func (s *Store) CreateSession(_ context.Context, token string, userID int64, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[token] = &models.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: s.Now(),
		ExpiresAt: expiresAt,
	}
	return nil
}

func (s *Store) GetSession(_ context.Context, token string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *Store) DeleteExpiredSessions(_ context.Context, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if session.ExpiresAt.Before(now) {
			delete(s.sessions, token)
		}
	}
	return nil
}

func (s *Store) Follow(_ context.Context, followerID, followedID int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if followerID == followedID {
		return nil, models.ErrSelfFollow
	}
	target, err := s.getUser(followedID)
	if err != nil {
		return nil, err
	}
	key := followKey{followerID, followedID}
	if _, ok := s.follows[key]; !ok {
		s.follows[key] = models.Follow{
			FollowerID: followerID,
			FollowedID: followedID,
			CreatedAt:  s.Now(),
		}
	}
	return target, nil
}

func (s *Store) Unfollow(_ context.Context, followerID, followedID int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.getUser(followedID)
	if err != nil {
		return nil, err
	}
	delete(s.follows, followKey{followerID, followedID})
	return target, nil
}

func (s *Store) CreatePost(_ context.Context, authorID int64, title, body string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getUser(authorID); err != nil {
		return nil, err
	}
	s.nextID++
	post := &models.Post{
		ID:        s.nextID,
		AuthorID:  authorID,
		Title:     title,
		Body:      body,
		CreatedAt: s.Now(),
	}
	s.posts[post.ID] = post
	s.postIDs = append(s.postIDs, post.ID)
	copied := *post
	return &copied, nil
}

func (s *Store) GetPost(_ context.Context, id int64) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getPost(id)
}

func (s *Store) ListPosts(_ context.Context) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := make([]models.Post, 0, len(s.postIDs))
	for _, id := range s.postIDs {
		posts = append(posts, *s.posts[id])
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (s *Store) UpdatePost(_ context.Context, id int64, title, body string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	post.Title = title
	post.Body = body
	copied := *post
	return &copied, nil
}

func (s *Store) DeletePost(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.posts, id)
	for i, postID := range s.postIDs {
		if postID == id {
			s.postIDs = append(s.postIDs[:i], s.postIDs[i+1:]...)
			break
		}
	}
	for key := range s.likes {
		if key.postID == id {
			delete(s.likes, key)
		}
	}
	for _, commentID := range append([]int64(nil), s.commentIDs...) {
		if s.comments[commentID].PostID == id {
			s.deleteComment(commentID)
		}
	}
	return nil
}

func (s *Store) CreateComment(_ context.Context, authorID, postID int64, body string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getPost(postID); err != nil {
		return nil, err
	}
	s.nextID++
	comment := &models.Comment{
		ID:        s.nextID,
		AuthorID:  authorID,
		PostID:    postID,
		Body:      body,
		CreatedAt: s.Now(),
	}
	s.comments[comment.ID] = comment
	s.commentIDs = append(s.commentIDs, comment.ID)
	copied := *comment
	return &copied, nil
}

func (s *Store) GetComment(_ context.Context, id int64) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *comment
	return &copied, nil
}

func (s *Store) ListComments(_ context.Context, postID int64) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comments := make([]models.Comment, 0)
	for _, id := range s.commentIDs {
		if s.comments[id].PostID == postID {
			comments = append(comments, *s.comments[id])
		}
	}
	return comments, nil
}

func (s *Store) UpdateComment(_ context.Context, id int64, body string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	comment.Body = body
	copied := *comment
	return &copied, nil
}

func (s *Store) DeleteComment(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return models.ErrNotFound
	}
	s.deleteComment(id)
	return nil
}

func (s *Store) LikePost(_ context.Context, userID, postID int64) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, err := s.getPost(postID)
	if err != nil {
		return nil, err
	}
	key := likeKey{userID, postID}
	if _, ok := s.likes[key]; ok {
		return nil, models.ErrDuplicateLike
	}
	now := s.Now()
	s.nextID++
	s.likes[key] = models.Like{
		ID:        s.nextID,
		UserID:    userID,
		PostID:    postID,
		CreatedAt: now,
	}
	s.nextID++
	notification := models.Notification{
		ID:          s.nextID,
		RecipientID: post.AuthorID,
		ActorID:     userID,
		Verb:        models.VerbLikedPost,
		PostID:      postID,
		CreatedAt:   now,
	}
	s.notifications = append(s.notifications, notification)
	return &notification, nil
}

func (s *Store) UnlikePost(_ context.Context, userID, postID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getPost(postID); err != nil {
		return err
	}
	delete(s.likes, likeKey{userID, postID})
	return nil
}

func (s *Store) GetFeed(
	_ context.Context,
	userID int64,
	before time.Time,
	beforeID int64,
	limit int,
) ([]models.FeedEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	followed := make(map[int64]bool)
	for key := range s.follows {
		if key.followerID == userID {
			followed[key.followedID] = true
		}
	}

	// postIDs is insertion order; the stable sort keeps that order among
	// posts sharing a timestamp
	entries := make([]models.FeedEntry, 0)
	for _, id := range s.postIDs {
		post := s.posts[id]
		if !followed[post.AuthorID] {
			continue
		}
		if post.CreatedAt.After(before) {
			continue
		}
		if post.CreatedAt.Equal(before) && post.ID <= beforeID {
			continue
		}
		entries = append(entries, models.FeedEntry{
			PostID:         post.ID,
			AuthorID:       post.AuthorID,
			AuthorUsername: s.users[post.AuthorID].Username,
			Title:          post.Title,
			Body:           post.Body,
			CreatedAt:      post.CreatedAt,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *Store) ListNotifications(_ context.Context, recipientID int64) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notifications := make([]models.Notification, 0)
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].RecipientID == recipientID {
			notifications = append(notifications, s.notifications[i])
		}
	}
	return notifications, nil
}

func (s *Store) DeleteOldNotifications(_ context.Context, before time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.notifications[:0]
	for _, n := range s.notifications {
		if !n.CreatedAt.Before(before) {
			kept = append(kept, n)
		}
	}
	s.notifications = kept
	return nil
}

// CountLikes reports the number of stored likes for a post. Test helper.
func (s *Store) CountLikes(postID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for key := range s.likes {
		if key.postID == postID {
			count++
		}
	}
	return count
}

// CountFollows reports the number of edges follower->followed. Test helper.
func (s *Store) CountFollows(followerID, followedID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.follows[followKey{followerID, followedID}]; ok {
		return 1
	}
	return 0
}

func (s *Store) getUser(id int64) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *Store) getPost(id int64) (*models.Post, error) {
	post, ok := s.posts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (s *Store) deleteComment(id int64) {
	delete(s.comments, id)
	for i, commentID := range s.commentIDs {
		if commentID == id {
			s.commentIDs = append(s.commentIDs[:i], s.commentIDs[i+1:]...)
			return
		}
	}
}
