package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"social/auth"
	"social/notifier"
	"social/storage/memory"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	store := memory.New()

	base := time.Now().Add(-time.Hour).Truncate(time.Microsecond)
	step := 0
	store.Now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}

	srv := NewServer(store, auth.NewService(store), notifier.NewHub())
	return srv.Handler()
}

func do(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func register(t *testing.T, handler http.Handler, username string) (int64, string) {
	t.Helper()
	w := do(t, handler, http.MethodPost, "/api/accounts/register", "", map[string]string{
		"username": username,
		"password": "secret",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: code %d, body %s", username, w.Code, w.Body.String())
	}
	var resp AuthResponse
	decode(t, w, &resp)
	return resp.ID, resp.Token
}

func createPost(t *testing.T, handler http.Handler, token, title string) int64 {
	t.Helper()
	w := do(t, handler, http.MethodPost, "/api/posts", token, map[string]string{
		"title": title,
		"body":  "body",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create post: code %d, body %s", w.Code, w.Body.String())
	}
	var resp PostResponse
	decode(t, w, &resp)
	return resp.ID
}

func TestRegisterLogin(t *testing.T) {
	handler := newTestServer(t)

	_, token := register(t, handler, "alice")
	if token == "" {
		t.Fatal("register returned no token")
	}

	w := do(t, handler, http.MethodPost, "/api/accounts/login", "", map[string]string{
		"username": "alice",
		"password": "secret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login code %d", w.Code)
	}

	w = do(t, handler, http.MethodPost, "/api/accounts/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad login code %d, want 400", w.Code)
	}
}

func TestRequiresAuthentication(t *testing.T) {
	handler := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/feed"},
		{http.MethodPost, "/api/follow/1"},
		{http.MethodPost, "/api/posts/1/like"},
		{http.MethodGet, "/api/notifications"},
	}
	for _, p := range paths {
		w := do(t, handler, p.method, p.path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: code %d, want 401", p.method, p.path, w.Code)
		}
	}
}

func TestFollowEndpoints(t *testing.T) {
	handler := newTestServer(t)
	aliceID, aliceToken := register(t, handler, "alice")
	bobID, _ := register(t, handler, "bob")

	// Self-follow is a domain violation
	w := do(t, handler, http.MethodPost, "/api/follow/"+itoa(aliceID), aliceToken, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("self follow: code %d, want 400", w.Code)
	}

	// Unknown target
	w = do(t, handler, http.MethodPost, "/api/follow/999", aliceToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown target: code %d, want 404", w.Code)
	}

	// Follow and repeat follow both succeed
	for i := 0; i < 2; i++ {
		w = do(t, handler, http.MethodPost, "/api/follow/"+itoa(bobID), aliceToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("follow #%d: code %d", i+1, w.Code)
		}
	}
	var detail DetailResponse
	decode(t, w, &detail)
	if detail.Detail != "You are now following bob." {
		t.Errorf("got detail %q", detail.Detail)
	}

	// Unfollow, also when no edge remains
	for i := 0; i < 2; i++ {
		w = do(t, handler, http.MethodPost, "/api/unfollow/"+itoa(bobID), aliceToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("unfollow #%d: code %d", i+1, w.Code)
		}
	}
}

func TestLikeAndNotifications(t *testing.T) {
	handler := newTestServer(t)
	_, aliceToken := register(t, handler, "alice")
	_, bobToken := register(t, handler, "bob")

	postID := createPost(t, handler, bobToken, "Hello")

	w := do(t, handler, http.MethodPost, "/api/posts/"+itoa(postID)+"/like", aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("like: code %d, body %s", w.Code, w.Body.String())
	}

	w = do(t, handler, http.MethodPost, "/api/posts/"+itoa(postID)+"/like", aliceToken, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate like: code %d, want 400", w.Code)
	}

	w = do(t, handler, http.MethodGet, "/api/notifications", bobToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("notifications: code %d", w.Code)
	}
	var notifications []map[string]any
	decode(t, w, &notifications)
	if len(notifications) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifications))
	}
	if verb := notifications[0]["verb"]; verb != "liked your post" {
		t.Errorf("got verb %v", verb)
	}

	// Liking an unknown post is 404
	w = do(t, handler, http.MethodPost, "/api/posts/999/like", aliceToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown post like: code %d, want 404", w.Code)
	}

	// Unlike twice is fine
	for i := 0; i < 2; i++ {
		w = do(t, handler, http.MethodPost, "/api/posts/"+itoa(postID)+"/unlike", aliceToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("unlike #%d: code %d", i+1, w.Code)
		}
	}
}

func TestOwnershipOnWrites(t *testing.T) {
	handler := newTestServer(t)
	_, bobToken := register(t, handler, "bob")
	_, carolToken := register(t, handler, "carol")

	postID := createPost(t, handler, carolToken, "Carol's post")

	// Anyone can read
	w := do(t, handler, http.MethodGet, "/api/posts/"+itoa(postID), "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("read: code %d, want 200", w.Code)
	}

	// Non-owner writes are forbidden
	w = do(t, handler, http.MethodDelete, "/api/posts/"+itoa(postID), bobToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign delete: code %d, want 403", w.Code)
	}
	w = do(t, handler, http.MethodPut, "/api/posts/"+itoa(postID), bobToken, map[string]string{
		"title": "hijacked", "body": "x",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign update: code %d, want 403", w.Code)
	}

	// The owner can delete
	w = do(t, handler, http.MethodDelete, "/api/posts/"+itoa(postID), carolToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("owner delete: code %d, want 200", w.Code)
	}
}

func TestCommentOwnership(t *testing.T) {
	handler := newTestServer(t)
	_, bobToken := register(t, handler, "bob")
	_, carolToken := register(t, handler, "carol")

	postID := createPost(t, handler, bobToken, "Post")

	w := do(t, handler, http.MethodPost, "/api/comments", carolToken, map[string]any{
		"post_id": postID,
		"body":    "nice",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create comment: code %d, body %s", w.Code, w.Body.String())
	}
	var comment CommentResponse
	decode(t, w, &comment)

	// The post's author still cannot edit someone else's comment
	w = do(t, handler, http.MethodPut, "/api/comments/"+itoa(comment.ID), bobToken, map[string]any{
		"body": "edited",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign comment update: code %d, want 403", w.Code)
	}

	w = do(t, handler, http.MethodDelete, "/api/comments/"+itoa(comment.ID), carolToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("owner comment delete: code %d, want 200", w.Code)
	}
}

func TestFeedEndpoint(t *testing.T) {
	handler := newTestServer(t)
	_, aliceToken := register(t, handler, "alice")
	bobID, bobToken := register(t, handler, "bob")
	carolID, carolToken := register(t, handler, "carol")

	do(t, handler, http.MethodPost, "/api/follow/"+itoa(bobID), aliceToken, nil)
	p1 := createPost(t, handler, bobToken, "P1")
	p2 := createPost(t, handler, carolToken, "P2")

	w := do(t, handler, http.MethodGet, "/api/feed", aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("feed: code %d", w.Code)
	}
	var resp struct {
		Cursor  string `json:"cursor"`
		Results []struct {
			PostID int64 `json:"post_id"`
		} `json:"results"`
	}
	decode(t, w, &resp)
	if len(resp.Results) != 1 || resp.Results[0].PostID != p1 {
		t.Fatalf("got results %+v, want only P1 (%d)", resp.Results, p1)
	}

	do(t, handler, http.MethodPost, "/api/follow/"+itoa(carolID), aliceToken, nil)
	w = do(t, handler, http.MethodGet, "/api/feed", aliceToken, nil)
	decode(t, w, &resp)
	if len(resp.Results) != 2 || resp.Results[0].PostID != p2 || resp.Results[1].PostID != p1 {
		t.Fatalf("got results %+v, want [P2 P1] = [%d %d]", resp.Results, p2, p1)
	}

	// Malformed cursors are a client error
	w = do(t, handler, http.MethodGet, "/api/feed?cursor=bogus", aliceToken, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed cursor: code %d, want 400", w.Code)
	}
}

func TestProfileStatistics(t *testing.T) {
	handler := newTestServer(t)
	_, aliceToken := register(t, handler, "alice")
	bobID, bobToken := register(t, handler, "bob")

	do(t, handler, http.MethodPost, "/api/follow/"+itoa(bobID), aliceToken, nil)
	createPost(t, handler, bobToken, "Hello")

	w := do(t, handler, http.MethodGet, "/api/accounts/profile", bobToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("profile: code %d", w.Code)
	}
	var profile ProfileResponse
	decode(t, w, &profile)
	if profile.FollowersCount != 1 || profile.PostsCount != 1 {
		t.Errorf("got %+v, want 1 follower and 1 post", profile)
	}
}
