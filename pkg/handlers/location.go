package handlers

import (
	"encoding/json"
	"log"
	"sync"

	"goalgg/pkg/models"
	"goalgg/pkg/services"

	"github.com/gofiber/contrib/websocket"
)

// LocationHandler drives the live-location websocket: clients stream
// {lat,lng} updates, each one is persisted and acknowledged.
type LocationHandler struct {
	users services.UserService

	mu    sync.RWMutex
	conns map[int]*websocket.Conn
}

func NewLocation(users services.UserService) *LocationHandler {
	return &LocationHandler{users: users, conns: make(map[int]*websocket.Conn)}
}

func (h *LocationHandler) Handle(c *websocket.Conn) {
	userID, _ := c.Locals("user_id").(int)
	if userID <= 0 {
		c.WriteJSON(map[string]string{"error": "invalid token"})
		c.Close()
		return
	}

	h.mu.Lock()
	h.conns[userID] = c
	h.mu.Unlock()

	log.Printf("[WS] user %d connected to location socket", userID)

	defer func() {
		h.mu.Lock()
		delete(h.conns, userID)
		h.mu.Unlock()
		c.Close()
		log.Printf("[WS] user %d disconnected from location socket", userID)
	}()

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			return
		}

		var loc models.Location
		if err := json.Unmarshal(raw, &loc); err != nil || loc.Lat == nil || loc.Lng == nil {
			c.WriteJSON(map[string]string{"error": "missing lat or lng"})
			continue
		}

		if err := h.users.UpdateLocation(userID, *loc.Lat, *loc.Lng); err != nil {
			log.Printf("[WS] location update failed user=%d: %v", userID, err)
			c.WriteJSON(map[string]string{"error": "failed to update location"})
			continue
		}

		c.WriteJSON(map[string]any{
			"status": "location updated",
			"lat":    *loc.Lat,
			"lng":    *loc.Lng,
		})
	}
}

// ActiveConnections reports how many location sockets are open.
func (h *LocationHandler) ActiveConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
