package server

import (
	"net/http"

	"social/auth"
	"social/monitoring"
	"social/storage/models"
)

type postRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type commentRequest struct {
	PostID int64  `json:"post_id"`
	Body   string `json:"body"`
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListPosts(r.Context())
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	resp := make([]PostResponse, 0, len(posts))
	for i := range posts {
		resp = append(resp, newPostResponse(&posts[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.Body == "" {
		sendError(w, http.StatusBadRequest, "title and body are required")
		return
	}

	post, err := s.store.CreatePost(r.Context(), user.ID, req.Title, req.Body)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPostResponse(post))
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, http.StatusNotFound, "unknown post")
		return
	}
	post, err := s.store.GetPost(r.Context(), id)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPostResponse(post))
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, http.StatusNotFound, "unknown post")
		return
	}
	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := s.store.GetPost(r.Context(), id)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	if !auth.CanWrite(user.ID, post.AuthorID) {
		s.sendDomainError(w, models.ErrForbidden)
		return
	}

	updated, err := s.store.UpdatePost(r.Context(), id, req.Title, req.Body)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPostResponse(updated))
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, http.StatusNotFound, "unknown post")
		return
	}

	post, err := s.store.GetPost(r.Context(), id)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	if !auth.CanWrite(user.ID, post.AuthorID) {
		s.sendDomainError(w, models.ErrForbidden)
		return
	}

	if err := s.store.DeletePost(r.Context(), id); err != nil {
		s.sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DetailResponse{Detail: "Post deleted."})
}

func (s *Server) handleLikePost(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, http.StatusNotFound, "unknown post")
		return
	}

	notification, err := s.store.LikePost(r.Context(), user.ID, id)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.hub.Publish(notification)
	monitoring.NotificationsPublished.Inc()

	writeJSON(w, http.StatusOK, DetailResponse{Detail: "Post liked."})
}

func (s *Server) handleUnlikePost(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, http.StatusNotFound, "unknown post")
		return
	}

	if err := s.store.UnlikePost(r.Context(), user.ID, id); err != nil {
		s.sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DetailResponse{Detail: "Post unliked."})
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, http.StatusNotFound, "unknown post")
		return
	}
	if _, err := s.store.GetPost(r.Context(), id); err != nil {
		s.sendDomainError(w, err)
		return
	}

	comments, err := s.store.ListComments(r.Context(), id)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	resp := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, newCommentResponse(&comments[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Body == "" {
		sendError(w, http.StatusBadRequest, "body is required")
		return
	}

	comment, err := s.store.CreateComment(r.Context(), user.ID, req.PostID, req.Body)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newCommentResponse(comment))
}

func (s *Server) handleGetComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, http.StatusNotFound, "unknown comment")
		return
	}
	comment, err := s.store.GetComment(r.Context(), id)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCommentResponse(comment))
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, http.StatusNotFound, "unknown comment")
		return
	}
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := s.store.GetComment(r.Context(), id)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	if !auth.CanWrite(user.ID, comment.AuthorID) {
		s.sendDomainError(w, models.ErrForbidden)
		return
	}

	updated, err := s.store.UpdateComment(r.Context(), id, req.Body)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCommentResponse(updated))
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, http.StatusNotFound, "unknown comment")
		return
	}

	comment, err := s.store.GetComment(r.Context(), id)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	if !auth.CanWrite(user.ID, comment.AuthorID) {
		s.sendDomainError(w, models.ErrForbidden)
		return
	}

	if err := s.store.DeleteComment(r.Context(), id); err != nil {
		s.sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DetailResponse{Detail: "Comment deleted."})
}
