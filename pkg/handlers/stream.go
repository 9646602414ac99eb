package handlers

import (
	"bufio"
	"log"
	"time"

	"goalgg/pkg/response"
	"goalgg/pkg/sse"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type StreamHandler struct {
	hub       *sse.Hub
	heartbeat time.Duration
}

func NewStream(hub *sse.Hub) *StreamHandler {
	return &StreamHandler{hub: hub, heartbeat: 30 * time.Second}
}

// Notifications is the SSE endpoint for real-time club notifications.
// The connection stays open until the client goes away; idle periods are
// bridged with heartbeat frames so proxies keep the stream alive.
func (h *StreamHandler) Notifications(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(int)
	if userID <= 0 {
		return response.Error(c, 401, "Could not validate credentials")
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	hub, heartbeat := h.hub, h.heartbeat
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ch := hub.Connect(userID)
		defer func() {
			// the channel must never outlive this writer, whatever path
			// got us out of the loop
			hub.Disconnect(userID, ch)
			ch.Close()
		}()

		streamEvents(w, ch, heartbeat)
		log.Printf("[SSE] stream closed for user %d", userID)
	}))
	return nil
}

// streamEvents writes the initial connected frame, then pumps events until
// the channel closes or a write fails.
func streamEvents(w *bufio.Writer, ch *sse.Channel, heartbeat time.Duration) {
	connected := sse.NewEvent(sse.EventConnected, map[string]any{
		"message": "connection established",
	})
	if !writeFrame(w, connected) {
		return
	}

	for {
		ev, err := ch.Dequeue(heartbeat)
		switch err {
		case nil:
		case sse.ErrTimeout:
			ev = sse.NewEvent(sse.EventHeartbeat, map[string]any{
				"timestamp": time.Now().Format(time.RFC3339),
			})
		default:
			return
		}

		if !writeFrame(w, ev) {
			return
		}
	}
}

func writeFrame(w *bufio.Writer, ev sse.Event) bool {
	if _, err := w.Write(ev.Format()); err != nil {
		return false
	}
	return w.Flush() == nil
}
