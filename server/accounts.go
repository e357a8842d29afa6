package server

import (
	"net/http"

	"social/storage/models"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Bio      string `json:"bio"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type profileUpdateRequest struct {
	Email string `json:"email"`
	Bio   string `json:"bio"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		sendError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, token, err := s.accounts.Register(r.Context(), req.Username, req.Email, req.Password, req.Bio)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AuthResponse{
		UserResponse: newUserResponse(user),
		Token:        token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := s.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{
		UserResponse: newUserResponse(user),
		Token:        token,
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request, user *models.User) {
	s.writeProfile(w, r, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req profileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.store.UpdateProfile(r.Context(), user.ID, req.Email, req.Bio)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.writeProfile(w, r, updated)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request, _ *models.User) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, newUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeProfile(w http.ResponseWriter, r *http.Request, user *models.User) {
	stats, err := s.store.GetUserStatistics(r.Context(), user.ID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProfileResponse{
		UserResponse:   newUserResponse(user),
		FollowersCount: stats.FollowersCount,
		FollowsCount:   stats.FollowsCount,
		PostsCount:     stats.PostsCount,
	})
}
