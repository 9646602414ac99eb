package sse

import (
	"fmt"
	"log"
)

// Domain event constructors. The payload shape is shared with the frontend:
// club_id, user_id, user_name plus a display message.

// NewClubJoinRequestEvent notifies a club admin that someone asked to join
// their private club.
func NewClubJoinRequestEvent(clubID, userID int, userName string, adminID int) Event {
	return NewEvent(EventJoinRequest, map[string]any{
		"club_id":   clubID,
		"user_id":   userID,
		"user_name": userName,
		"admin_id":  adminID,
		"message":   fmt.Sprintf("%s wants to join the club", userName),
	})
}

// NewMemberJoinedEvent notifies a club admin that a user became a member.
func NewMemberJoinedEvent(clubID, userID int, userName string) Event {
	return NewEvent(EventMemberJoined, map[string]any{
		"club_id":   clubID,
		"user_id":   userID,
		"user_name": userName,
		"message":   fmt.Sprintf("%s joined the club", userName),
	})
}

// NewRequestApprovedEvent notifies a user that their join request was
// accepted.
func NewRequestApprovedEvent(clubID, userID int, userName string) Event {
	return NewEvent(EventRequestApproved, map[string]any{
		"club_id":   clubID,
		"user_id":   userID,
		"user_name": userName,
		"message":   "your join request was approved",
	})
}

// Notify delivers the event on its own goroutine so callers inside request
// handling never wait on fan-out. Notifications are best-effort: they run
// strictly after the triggering write has committed, and a failure here is
// logged, never surfaced to the caller.
func (h *Hub) Notify(userID int, ev Event) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[SSE] notify user %d failed: %v", userID, r)
			}
		}()
		h.SendToUser(userID, ev)
	}()
}
