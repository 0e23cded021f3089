// Package notify fans out change events to subscribers so they can recompute derived views.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType identifies what changed
type EventType string

const (
	EventTransactionsChanged EventType = "TRANSACTIONS_CHANGED"
	EventPriceRefreshed      EventType = "PRICE_REFRESHED"
)

// Event is published after a successful store write or price refresh
type Event struct {
	Type EventType
	At   time.Time
}

// Publisher is the side of the hub services depend on
type Publisher interface {
	Publish(evt Event)
}

// subscriberBuffer bounds how far a subscriber may lag before events are dropped for it
const subscriberBuffer = 8

// Hub is an in-process publish/subscribe notifier.
// Publish never blocks: a subscriber whose buffer is full misses the event, which is fine
// because every event only means "recompute from scratch".
type Hub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]chan Event
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]chan Event)}
}

// Subscribe returns a channel receiving every event published until ctx is done.
// The channel is closed once the subscription ends.
func (h *Hub) Subscribe(ctx context.Context) <-chan Event {
	id := uuid.New()
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, id)
		close(ch)
		h.mu.Unlock()
	}()

	return ch
}

// Publish delivers evt to every current subscriber
func (h *Hub) Publish(evt Event) {
	if evt.At.IsZero() {
		evt.At = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Subscribers returns the number of active subscriptions
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
