package server

import (
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"social/feeds"
	"social/storage/models"
	"social/utils"
)

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request, user *models.User) {
	targetID, err := pathID(r, "userID")
	if err != nil {
		sendError(w, http.StatusNotFound, "unknown user")
		return
	}

	target, err := s.store.Follow(r.Context(), user.ID, targetID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DetailResponse{
		Detail: fmt.Sprintf("You are now following %s.", target.Username),
	})
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request, user *models.User) {
	targetID, err := pathID(r, "userID")
	if err != nil {
		sendError(w, http.StatusNotFound, "unknown user")
		return
	}

	target, err := s.store.Unfollow(r.Context(), user.ID, targetID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DetailResponse{
		Detail: fmt.Sprintf("You have unfollowed %s.", target.Username),
	})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request, user *models.User) {
	queryParams := r.URL.Query()
	limit := utils.IntFromString(queryParams.Get("limit"), feeds.DefaultLimit)

	result, err := s.feed.GetTimeline(r.Context(), user.ID, feeds.QueryParams{
		Limit:  limit,
		Cursor: queryParams.Get("cursor"),
	})
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request, user *models.User) {
	notifications, err := s.store.ListNotifications(r.Context(), user.ID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (s *Server) handleNotificationsStream(w http.ResponseWriter, r *http.Request, user *models.User) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Error upgrading notification stream: %v", err)
		return
	}
	defer conn.Close()

	s.hub.Register(user.ID, conn)
	defer s.hub.Unregister(user.ID, conn)

	// Hold the connection open; clients only receive
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
