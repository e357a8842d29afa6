package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"social/feeds"
	"social/storage/models"
	"social/utils"
)

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(utils.ToJson(value))
}

func sendError(w http.ResponseWriter, errorCode int, message string) {
	log.Info(message)
	writeJSON(w, errorCode, ErrorResponse{Error: message})
}

func (s *Server) sendDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrSelfFollow),
		errors.Is(err, models.ErrDuplicateLike),
		errors.Is(err, models.ErrDuplicateUsername),
		errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, feeds.ErrMalformedCursor):
		sendError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrForbidden):
		sendError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrNotFound):
		sendError(w, http.StatusNotFound, err.Error())
	default:
		log.Errorf("Error handling request: %v", err)
		sendError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

// requestToken reads the token from the Authorization header ("Token <key>"
// or "Bearer <key>") or, for websocket clients, the token query parameter.
func requestToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	for _, scheme := range []string{"Token ", "Bearer "} {
		if strings.HasPrefix(header, scheme) {
			return strings.TrimPrefix(header, scheme)
		}
	}
	return r.URL.Query().Get("token")
}
