package feeds

import (
	"context"
	"errors"
	"testing"
	"time"

	"social/storage/memory"
	"social/storage/models"
)

func newTestStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.New()

	base := time.Now().Add(-time.Hour).Truncate(time.Microsecond)
	step := 0
	store.Now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}
	return store
}

func createUser(t *testing.T, store *memory.Store, username string) *models.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), username, "", "hash", "")
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createPost(t *testing.T, store *memory.Store, authorID int64, title string) *models.Post {
	t.Helper()
	post, err := store.CreatePost(context.Background(), authorID, title, "body")
	if err != nil {
		t.Fatalf("create post %s: %v", title, err)
	}
	return post
}

func postIDs(posts []models.FeedEntry) []int64 {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.PostID
	}
	return ids
}

func TestTimelineFollowedAuthorsOnly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	feed := NewFeed(store)

	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	carol := createUser(t, store, "carol")

	store.Follow(ctx, alice.ID, bob.ID)
	p1 := createPost(t, store, bob.ID, "P1")
	p2 := createPost(t, store, carol.ID, "P2")

	result, err := feed.GetTimeline(ctx, alice.ID, QueryParams{})
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if got := postIDs(result.Posts); len(got) != 1 || got[0] != p1.ID {
		t.Fatalf("got posts %v, want [%d]", got, p1.ID)
	}

	// Following carol brings her earlier post in, newest first
	store.Follow(ctx, alice.ID, carol.ID)
	result, err = feed.GetTimeline(ctx, alice.ID, QueryParams{})
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	got := postIDs(result.Posts)
	if len(got) != 2 || got[0] != p2.ID || got[1] != p1.ID {
		t.Fatalf("got posts %v, want [%d %d]", got, p2.ID, p1.ID)
	}
}

func TestTimelineEmptyWithoutFollows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	feed := NewFeed(store)

	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	createPost(t, store, bob.ID, "P1")

	result, err := feed.GetTimeline(ctx, alice.ID, QueryParams{})
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(result.Posts) != 0 {
		t.Errorf("got %d posts, want 0", len(result.Posts))
	}
	if result.Cursor != CursorEOF {
		t.Errorf("got cursor %q, want %q", result.Cursor, CursorEOF)
	}
}

func TestTimelinePagination(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	feed := NewFeed(store)

	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	store.Follow(ctx, alice.ID, bob.ID)

	ids := make([]int64, 0, 5)
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		ids = append(ids, createPost(t, store, bob.ID, title).ID)
	}

	// First page: two newest posts
	result, err := feed.GetTimeline(ctx, alice.ID, QueryParams{Limit: 2})
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if got := postIDs(result.Posts); len(got) != 2 || got[0] != ids[4] || got[1] != ids[3] {
		t.Fatalf("page 1: got %v, want [%d %d]", got, ids[4], ids[3])
	}

	// Second page resumes from the cursor
	result, err = feed.GetTimeline(ctx, alice.ID, QueryParams{Limit: 2, Cursor: result.Cursor})
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if got := postIDs(result.Posts); len(got) != 2 || got[0] != ids[2] || got[1] != ids[1] {
		t.Fatalf("page 2: got %v, want [%d %d]", got, ids[2], ids[1])
	}

	// Third page drains the feed, fourth is EOF
	result, err = feed.GetTimeline(ctx, alice.ID, QueryParams{Limit: 2, Cursor: result.Cursor})
	if err != nil {
		t.Fatalf("page 3: %v", err)
	}
	if got := postIDs(result.Posts); len(got) != 1 || got[0] != ids[0] {
		t.Fatalf("page 3: got %v, want [%d]", got, ids[0])
	}

	result, err = feed.GetTimeline(ctx, alice.ID, QueryParams{Limit: 2, Cursor: result.Cursor})
	if err != nil {
		t.Fatalf("page 4: %v", err)
	}
	if len(result.Posts) != 0 || result.Cursor != CursorEOF {
		t.Fatalf("page 4: got %d posts, cursor %q; want empty EOF", len(result.Posts), result.Cursor)
	}

	// EOF cursor stays EOF
	result, err = feed.GetTimeline(ctx, alice.ID, QueryParams{Limit: 2, Cursor: CursorEOF})
	if err != nil {
		t.Fatalf("eof page: %v", err)
	}
	if len(result.Posts) != 0 || result.Cursor != CursorEOF {
		t.Fatalf("eof page: got %d posts, cursor %q", len(result.Posts), result.Cursor)
	}
}

var malformedCursors = []string{
	"nonsense",
	"12_34_56",
	"x_1",
	"1_y",
}

func TestTimelineMalformedCursor(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	feed := NewFeed(store)
	alice := createUser(t, store, "alice")

	for _, cursor := range malformedCursors {
		t.Run(cursor, func(t *testing.T) {
			_, err := feed.GetTimeline(ctx, alice.ID, QueryParams{Cursor: cursor})
			if !errors.Is(err, ErrMalformedCursor) {
				t.Errorf("got %v, want ErrMalformedCursor", err)
			}
		})
	}
}

func TestTimelineExcludesOwnPosts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	feed := NewFeed(store)

	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	store.Follow(ctx, alice.ID, bob.ID)

	createPost(t, store, alice.ID, "mine")
	theirs := createPost(t, store, bob.ID, "theirs")

	result, err := feed.GetTimeline(ctx, alice.ID, QueryParams{})
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if got := postIDs(result.Posts); len(got) != 1 || got[0] != theirs.ID {
		t.Errorf("got posts %v, want only [%d]", got, theirs.ID)
	}
}
