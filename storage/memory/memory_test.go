package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"social/storage/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := New()

	base := time.Now().Add(-time.Hour).Truncate(time.Microsecond)
	step := 0
	store.Now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}
	return store
}

func mustCreateUser(t *testing.T, store *Store, username string) *models.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), username, username+"@example.com", "hash", "")
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func TestFollowIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, store, "alice")
	bob := mustCreateUser(t, store, "bob")

	for i := 0; i < 2; i++ {
		target, err := store.Follow(ctx, alice.ID, bob.ID)
		if err != nil {
			t.Fatalf("follow #%d: %v", i+1, err)
		}
		if target.Username != "bob" {
			t.Errorf("got target %q, want %q", target.Username, "bob")
		}
	}
	if got := store.CountFollows(alice.ID, bob.ID); got != 1 {
		t.Errorf("got %d edges, want 1", got)
	}
}

func TestSelfFollow(t *testing.T) {
	store := newTestStore(t)
	alice := mustCreateUser(t, store, "alice")

	_, err := store.Follow(context.Background(), alice.ID, alice.ID)
	if !errors.Is(err, models.ErrSelfFollow) {
		t.Errorf("got %v, want ErrSelfFollow", err)
	}
}

func TestFollowUnknownTarget(t *testing.T) {
	store := newTestStore(t)
	alice := mustCreateUser(t, store, "alice")

	_, err := store.Follow(context.Background(), alice.ID, alice.ID+100)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestUnfollowAbsentEdge(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, store, "alice")
	bob := mustCreateUser(t, store, "bob")

	if _, err := store.Unfollow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("unfollow without edge: %v", err)
	}
	if got := store.CountFollows(alice.ID, bob.ID); got != 0 {
		t.Errorf("got %d edges, want 0", got)
	}
}

func TestLikeDuplicate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, store, "alice")
	bob := mustCreateUser(t, store, "bob")
	post, err := store.CreatePost(ctx, bob.ID, "Hello", "World")
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	notification, err := store.LikePost(ctx, alice.ID, post.ID)
	if err != nil {
		t.Fatalf("first like: %v", err)
	}
	if notification.RecipientID != bob.ID || notification.ActorID != alice.ID {
		t.Errorf("notification recipient/actor = %d/%d, want %d/%d",
			notification.RecipientID, notification.ActorID, bob.ID, alice.ID)
	}
	if notification.Verb != models.VerbLikedPost {
		t.Errorf("got verb %q, want %q", notification.Verb, models.VerbLikedPost)
	}

	if _, err := store.LikePost(ctx, alice.ID, post.ID); !errors.Is(err, models.ErrDuplicateLike) {
		t.Fatalf("got %v, want ErrDuplicateLike", err)
	}

	if got := store.CountLikes(post.ID); got != 1 {
		t.Errorf("got %d likes, want 1", got)
	}
	notifications, _ := store.ListNotifications(ctx, bob.ID)
	if len(notifications) != 1 {
		t.Errorf("got %d notifications, want 1", len(notifications))
	}
}

func TestSelfLikeStillNotifies(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	bob := mustCreateUser(t, store, "bob")
	post, _ := store.CreatePost(ctx, bob.ID, "Hello", "World")

	notification, err := store.LikePost(ctx, bob.ID, post.ID)
	if err != nil {
		t.Fatalf("self like: %v", err)
	}
	if notification.RecipientID != bob.ID || notification.ActorID != bob.ID {
		t.Errorf("self like should notify the author about themselves")
	}
}

func TestUnlikeIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, store, "alice")
	bob := mustCreateUser(t, store, "bob")
	post, _ := store.CreatePost(ctx, bob.ID, "Hello", "World")

	if _, err := store.LikePost(ctx, alice.ID, post.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := store.UnlikePost(ctx, alice.ID, post.ID); err != nil {
			t.Fatalf("unlike #%d: %v", i+1, err)
		}
	}
	if got := store.CountLikes(post.ID); got != 0 {
		t.Errorf("got %d likes, want 0", got)
	}
}

func TestUserStatistics(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, store, "alice")
	bob := mustCreateUser(t, store, "bob")
	carol := mustCreateUser(t, store, "carol")

	store.Follow(ctx, alice.ID, bob.ID)
	store.Follow(ctx, carol.ID, bob.ID)
	store.CreatePost(ctx, bob.ID, "Hello", "World")

	stats, err := store.GetUserStatistics(ctx, bob.ID)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.FollowersCount != 2 || stats.FollowsCount != 0 || stats.PostsCount != 1 {
		t.Errorf("got %+v, want 2 followers, 0 follows, 1 post", stats)
	}
}
