package sse

import (
	"log"
	"sync"
)

// Hub maps user ids to their open notification channels. A user can hold
// several channels at once (multiple tabs/devices). All mutations go
// through the mutex: Connect/Disconnect/SendToUser are safe to call from
// any goroutine.
type Hub struct {
	mu     sync.RWMutex
	byUser map[int][]*Channel
}

func NewHub() *Hub {
	return &Hub{byUser: make(map[int][]*Channel)}
}

// Connect registers a fresh channel for the user and returns it. The
// caller owns the channel until it passes it back to Disconnect.
func (h *Hub) Connect(userID int) *Channel {
	ch := newChannel()
	h.mu.Lock()
	h.byUser[userID] = append(h.byUser[userID], ch)
	n := len(h.byUser[userID])
	h.mu.Unlock()

	log.Printf("[SSE] user %d connected, channels=%d", userID, n)
	return ch
}

// Disconnect removes the channel from the user's list. The user's entry
// disappears with its last channel; removing an already-removed channel
// is a no-op.
func (h *Hub) Disconnect(userID int, ch *Channel) {
	h.mu.Lock()
	conns := h.byUser[userID]
	for i, c := range conns {
		if c == ch {
			h.byUser[userID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.byUser[userID]) == 0 {
		delete(h.byUser, userID)
	}
	h.mu.Unlock()

	log.Printf("[SSE] user %d disconnected", userID)
}

// SendToUser enqueues the event on every channel the user currently holds.
// No open channel is a normal condition, not an error. Channels that no
// longer accept events are dropped from the user's list; delivery to the
// rest continues.
func (h *Hub) SendToUser(userID int, ev Event) {
	h.mu.RLock()
	conns := append([]*Channel(nil), h.byUser[userID]...)
	h.mu.RUnlock()

	if len(conns) == 0 {
		return
	}

	var dead []*Channel
	for _, ch := range conns {
		if err := ch.Enqueue(ev); err != nil {
			dead = append(dead, ch)
		}
	}
	for _, ch := range dead {
		h.Disconnect(userID, ch)
	}

	log.Printf("[SSE] event %s sent to user %d (%d channel(s))", ev.Type, userID, len(conns)-len(dead))
}

// SendToUsers fans the same event out to each user in turn. Users without
// open channels are simply skipped.
func (h *Hub) SendToUsers(userIDs []int, ev Event) {
	for _, id := range userIDs {
		h.SendToUser(id, ev)
	}
}

// ConnectionCount returns the total number of open channels.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.byUser {
		total += len(conns)
	}
	return total
}

// ConnectedUserIDs lists users with at least one open channel.
func (h *Hub) ConnectedUserIDs() []int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]int, 0, len(h.byUser))
	for id := range h.byUser {
		ids = append(ids, id)
	}
	return ids
}
