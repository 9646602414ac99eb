package sse

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrTimeout is returned by Dequeue when no event arrived in time.
	// The stream handler turns it into a heartbeat frame.
	ErrTimeout = errors.New("sse: dequeue timed out")

	// ErrClosed is returned once the channel has been closed.
	ErrClosed = errors.New("sse: channel closed")
)

// Channel is one subscriber's delivery queue, owned by a single stream
// connection. The queue is unbounded: Enqueue must never block the caller
// (losing a notification is better than stalling a request handler).
type Channel struct {
	mu     sync.Mutex
	queue  []Event
	wake   chan struct{}
	closed bool
}

func newChannel() *Channel {
	return &Channel{wake: make(chan struct{}, 1)}
}

// Enqueue appends the event to the queue. Fails only when the channel has
// already been closed.
func (c *Channel) Enqueue(ev Event) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.queue = append(c.queue, ev)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
	return nil
}

// Dequeue blocks until an event arrives, the timeout elapses (ErrTimeout)
// or the channel is closed (ErrClosed). Events come out in enqueue order.
func (c *Channel) Dequeue(timeout time.Duration) (Event, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		c.mu.Lock()
		if len(c.queue) > 0 {
			ev := c.queue[0]
			c.queue = c.queue[1:]
			c.mu.Unlock()
			return ev, nil
		}
		if c.closed {
			c.mu.Unlock()
			return Event{}, ErrClosed
		}
		c.mu.Unlock()

		select {
		case <-c.wake:
		case <-timer.C:
			return Event{}, ErrTimeout
		}
	}
}

// Len reports how many events are waiting.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Close marks the channel dead and wakes a blocked Dequeue. Idempotent.
// Events still queued are discarded with the channel.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.queue = nil
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}
