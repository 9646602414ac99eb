package sse

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectDisconnect(t *testing.T) {
	h := NewHub()

	ch := h.Connect(42)
	assert.Equal(t, 1, h.ConnectionCount())
	assert.Contains(t, h.ConnectedUserIDs(), 42)

	h.Disconnect(42, ch)
	assert.Equal(t, 0, h.ConnectionCount())
	assert.NotContains(t, h.ConnectedUserIDs(), 42)
}

func TestDisconnectIsIdempotent(t *testing.T) {
	h := NewHub()
	ch := h.Connect(7)

	h.Disconnect(7, ch)
	h.Disconnect(7, ch)

	assert.Equal(t, 0, h.ConnectionCount())
	assert.Empty(t, h.ConnectedUserIDs())
}

func TestUserEntryRemovedWithLastChannel(t *testing.T) {
	h := NewHub()
	a := h.Connect(7)
	b := h.Connect(7)

	h.Disconnect(7, a)
	assert.Contains(t, h.ConnectedUserIDs(), 7)

	h.Disconnect(7, b)
	assert.NotContains(t, h.ConnectedUserIDs(), 7)
}

func TestSendToUserDeliversToChannel(t *testing.T) {
	h := NewHub()
	ch := h.Connect(42)

	ev := NewClubJoinRequestEvent(3, 42, "noa", 1)
	h.SendToUser(42, ev)

	got, err := ch.Dequeue(time.Second)
	require.NoError(t, err)
	assert.Equal(t, ev.Type, got.Type)
	assert.Equal(t, ev.Data["club_id"], got.Data["club_id"])
}

func TestSendToUserWithoutSubscribers(t *testing.T) {
	h := NewHub()

	// must be a silent no-op
	h.SendToUser(99, NewEvent(EventMemberJoined, nil))

	assert.NotContains(t, h.ConnectedUserIDs(), 99)
	assert.Equal(t, 0, h.ConnectionCount())
}

func TestFanOutToMultipleChannels(t *testing.T) {
	h := NewHub()
	a := h.Connect(7)
	b := h.Connect(7)

	ev := NewEvent(EventMemberJoined, map[string]any{"club_id": 1})
	h.SendToUser(7, ev)

	for _, ch := range []*Channel{a, b} {
		got, err := ch.Dequeue(time.Second)
		require.NoError(t, err)
		assert.Equal(t, EventMemberJoined, got.Type)
	}

	h.Disconnect(7, a)
	h.SendToUser(7, NewEvent(EventRequestApproved, nil))

	got, err := b.Dequeue(time.Second)
	require.NoError(t, err)
	assert.Equal(t, EventRequestApproved, got.Type)
	assert.Equal(t, 0, a.Len())
}

func TestSendDropsClosedChannels(t *testing.T) {
	h := NewHub()
	a := h.Connect(7)
	b := h.Connect(7)
	a.Close() // connection died without deregistering

	h.SendToUser(7, NewEvent(EventMemberJoined, nil))

	// delivery continued to the healthy channel
	got, err := b.Dequeue(time.Second)
	require.NoError(t, err)
	assert.Equal(t, EventMemberJoined, got.Type)

	// dead channel was pruned from the registry
	assert.Equal(t, 1, h.ConnectionCount())
}

func TestSendToUserPreservesOrder(t *testing.T) {
	h := NewHub()
	ch := h.Connect(5)

	for i := 0; i < 10; i++ {
		h.SendToUser(5, NewEvent(EventHeartbeat, map[string]any{"seq": i}))
	}
	for i := 0; i < 10; i++ {
		got, err := ch.Dequeue(time.Second)
		require.NoError(t, err)
		assert.Equal(t, i, got.Data["seq"])
	}
}

func TestSendToUsersPartialDelivery(t *testing.T) {
	h := NewHub()
	ch := h.Connect(1)

	h.SendToUsers([]int{1, 2, 3}, NewEvent(EventMemberJoined, nil))

	_, err := ch.Dequeue(time.Second)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, h.ConnectedUserIDs())
}

func TestNotifyIsAsynchronous(t *testing.T) {
	h := NewHub()
	ch := h.Connect(42)

	h.Notify(42, NewEvent(EventRequestApproved, nil))

	got, err := ch.Dequeue(time.Second)
	require.NoError(t, err)
	assert.Equal(t, EventRequestApproved, got.Type)
}

func TestConcurrentRegisterDispatchDeregister(t *testing.T) {
	h := NewHub()

	var wg sync.WaitGroup
	for u := 0; u < 8; u++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				ch := h.Connect(userID)
				h.SendToUser(userID, NewEvent(EventHeartbeat, nil))
				h.Disconnect(userID, ch)
				ch.Close()
			}
		}(u)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h.SendToUsers([]int{0, 1, 2, 3, 4, 5, 6, 7}, NewEvent(EventHeartbeat, nil))
				h.ConnectionCount()
				h.ConnectedUserIDs()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, h.ConnectionCount())
	assert.Empty(t, h.ConnectedUserIDs())
}
