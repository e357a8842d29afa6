// Package notifier delivers notifications to connected websocket clients as
// they are created. Notifications are persisted by the store regardless of
// whether the recipient is connected.
package notifier

import (
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"social/storage/models"
)

type Hub struct {
	mu      sync.Mutex
	clients map[int64]map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*websocket.Conn]struct{}),
	}
}

func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*websocket.Conn]struct{})
	}
	h.clients[userID][conn] = struct{}{}
}

func (h *Hub) Unregister(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[userID]
	if !ok {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.clients, userID)
	}
}

// Publish pushes the notification to every connection of its recipient.
// Connections that fail to write are dropped.
func (h *Hub) Publish(notification *models.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients[notification.RecipientID] {
		if err := conn.WriteJSON(notification); err != nil {
			log.Errorf("Error writing notification: %v", err)
			conn.Close()
			delete(h.clients[notification.RecipientID], conn)
		}
	}
}
