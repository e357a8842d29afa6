package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"social/auth"
	"social/feeds"
	"social/monitoring"
	"social/monitoring/middleware"
	"social/notifier"
	"social/storage"
	"social/storage/models"
)

type Server struct {
	store    storage.Store
	accounts *auth.Service
	identity auth.IdentityProvider
	feed     feeds.Feed
	hub      *notifier.Hub
	registry *prometheus.Registry
	upgrader websocket.Upgrader
}

func NewServer(store storage.Store, accounts *auth.Service, hub *notifier.Hub) *Server {
	registry := prometheus.NewRegistry()
	monitoring.Register(registry)

	return &Server{
		store:    store,
		accounts: accounts,
		identity: accounts,
		feed:     feeds.NewFeed(store),
		hub:      hub,
		registry: registry,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/accounts/register", s.handleRegister)
	mux.HandleFunc("POST /api/accounts/login", s.handleLogin)
	mux.HandleFunc("GET /api/accounts/profile", s.requireAuth(s.handleGetProfile))
	mux.HandleFunc("PUT /api/accounts/profile", s.requireAuth(s.handleUpdateProfile))
	mux.HandleFunc("GET /api/accounts/users", s.requireAuth(s.handleListUsers))

	mux.HandleFunc("POST /api/follow/{userID}", s.requireAuth(s.handleFollow))
	mux.HandleFunc("POST /api/unfollow/{userID}", s.requireAuth(s.handleUnfollow))
	mux.HandleFunc("GET /api/feed", s.requireAuth(s.handleFeed))

	mux.HandleFunc("GET /api/posts", s.handleListPosts)
	mux.HandleFunc("POST /api/posts", s.requireAuth(s.handleCreatePost))
	mux.HandleFunc("GET /api/posts/{id}", s.handleGetPost)
	mux.HandleFunc("PUT /api/posts/{id}", s.requireAuth(s.handleUpdatePost))
	mux.HandleFunc("DELETE /api/posts/{id}", s.requireAuth(s.handleDeletePost))
	mux.HandleFunc("POST /api/posts/{id}/like", s.requireAuth(s.handleLikePost))
	mux.HandleFunc("POST /api/posts/{id}/unlike", s.requireAuth(s.handleUnlikePost))
	mux.HandleFunc("GET /api/posts/{id}/comments", s.handleListComments)

	mux.HandleFunc("POST /api/comments", s.requireAuth(s.handleCreateComment))
	mux.HandleFunc("GET /api/comments/{id}", s.handleGetComment)
	mux.HandleFunc("PUT /api/comments/{id}", s.requireAuth(s.handleUpdateComment))
	mux.HandleFunc("DELETE /api/comments/{id}", s.requireAuth(s.handleDeleteComment))

	mux.HandleFunc("GET /api/notifications", s.requireAuth(s.handleListNotifications))
	mux.HandleFunc("GET /api/notifications/stream", s.requireAuth(s.handleNotificationsStream))

	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return middleware.NewServerMiddleware(mux)
}

func (s *Server) Run() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}

	err := http.ListenAndServe(":"+port, s.Handler())
	if errors.Is(err, http.ErrServerClosed) {
		fmt.Printf("server closed\n")
	} else if err != nil {
		fmt.Printf("error starting server: %s\n", err)
		os.Exit(1)
	}
}

// requireAuth resolves the request token and passes the authenticated user to
// the wrapped handler.
func (s *Server) requireAuth(next func(http.ResponseWriter, *http.Request, *models.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.identity.Identify(r.Context(), requestToken(r))
		if err != nil {
			if errors.Is(err, models.ErrInvalidToken) {
				sendError(w, http.StatusUnauthorized, "authentication required")
			} else {
				s.sendDomainError(w, err)
			}
			return
		}
		next(w, r, user)
	}
}
