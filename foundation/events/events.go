// Package events fans node event strings out to named subscribers,
// primarily the websocket feed handler.
package events

import (
	"fmt"
	"sync"
)

// subscriberBuffer is the channel depth kept per subscriber. A reader that
// falls this far behind starts losing its oldest events, never the newest.
const subscriberBuffer = 100

// Events maintains the set of registered subscribers.
type Events struct {
	mu     sync.Mutex
	subs   map[string]chan string
	closed bool
}

// New constructs an events value for registering subscribers.
func New() *Events {
	return &Events{
		subs: make(map[string]chan string),
	}
}

// Acquire registers the subscriber id and returns its receive channel.
// Acquiring an id that is already registered returns the existing channel.
// After Shutdown the returned channel is already closed.
func (evt *Events) Acquire(id string) <-chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if ch, exists := evt.subs[id]; exists {
		return ch
	}

	ch := make(chan string, subscriberBuffer)
	if evt.closed {
		close(ch)
		return ch
	}

	evt.subs[id] = ch
	return ch
}

// Release removes the subscriber and closes its channel.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.subs[id]
	if !exists {
		return fmt.Errorf("subscriber %q is not registered", id)
	}

	delete(evt.subs, id)
	close(ch)

	return nil
}

// Send delivers the event to every subscriber without blocking. A full
// subscriber has its oldest event dropped to make room for this one.
func (evt *Events) Send(event string) {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for _, ch := range evt.subs {
		select {
		case ch <- event:
			continue
		default:
		}

		// Full buffer: evict the oldest event and try once more. If the
		// reader drained the channel in between, the eviction finds
		// nothing to take and the retry still has room.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- event:
		default:
		}
	}
}

// Shutdown closes every subscriber channel and refuses new registrations.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	evt.closed = true

	for id, ch := range evt.subs {
		delete(evt.subs, id)
		close(ch)
	}
}
