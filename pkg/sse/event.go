package sse

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types pushed over the notification stream.
const (
	EventConnected       = "connected"
	EventHeartbeat       = "heartbeat"
	EventJoinRequest     = "club:join-request"
	EventMemberJoined    = "club:user-joined"
	EventRequestApproved = "club:request-approved"
)

// Event is a single notification. Immutable after construction.
type Event struct {
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

func NewEvent(eventType string, data map[string]any) Event {
	return Event{Type: eventType, Data: data, Timestamp: time.Now()}
}

// Format renders the event as one SSE frame: a "data:" line carrying the
// JSON body, terminated by a blank line so clients can split on "\n\n".
func (e Event) Format() []byte {
	body, err := json.Marshal(struct {
		Type      string         `json:"type"`
		Data      map[string]any `json:"data"`
		Timestamp string         `json:"timestamp"`
	}{e.Type, e.Data, e.Timestamp.Format(time.RFC3339)})
	if err != nil {
		// payloads are plain scalars and nested maps, this should not
		// happen; keep the stream alive with a bare frame
		return []byte(fmt.Sprintf("data: {\"type\":%q}\n\n", e.Type))
	}
	frame := make([]byte, 0, len(body)+8)
	frame = append(frame, "data: "...)
	frame = append(frame, body...)
	frame = append(frame, '\n', '\n')
	return frame
}
