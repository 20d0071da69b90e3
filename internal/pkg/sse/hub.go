package sse

import "sync"

// Event is one server-sent event addressed to a user's subscribers.
type Event struct {
	UserID string
	Event  string
	Data   interface{}
}

// subscriberBuffer bounds how far a slow SSE client can fall behind
// before events are dropped for it.
const subscriberBuffer = 10

// Hub fans events out to per-user subscriber channels. A user may hold
// several subscriptions at once (multiple tabs, the bell and the page).
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers a channel for userID. The returned cleanup must
// be called exactly once; it closes the channel.
func (h *Hub) Subscribe(userID string) (chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	set, ok := h.subs[userID]
	if !ok {
		set = make(map[chan Event]struct{})
		h.subs[userID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[userID], ch)
		close(ch)
		if len(h.subs[userID]) == 0 {
			delete(h.subs, userID)
		}
	}
	return ch, cleanup
}

// Publish delivers event to every subscriber of userID. Sends never
// block; a full subscriber channel loses the event.
func (h *Hub) Publish(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[userID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// PublishToMany delivers event to each named user, rewriting the
// addressee per copy.
func (h *Hub) PublishToMany(userIDs []string, event Event) {
	for _, userID := range userIDs {
		perUser := event
		perUser.UserID = userID
		h.Publish(userID, perUser)
	}
}

func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
