package location

import "sync"

// Feed is the in-process change feed over newly inserted location rows.
// The ingestion service publishes each accepted sample; the live map
// subscribes. It mirrors the real-time insert notifications the hosted
// store would emit.
type Feed struct {
	mu   sync.RWMutex
	subs map[chan Location]struct{}
}

func NewFeed() *Feed {
	return &Feed{
		subs: make(map[chan Location]struct{}),
	}
}

// Subscribe returns a channel of inserted samples and a cleanup function
// that must be called exactly once to release the subscription.
func (f *Feed) Subscribe() (chan Location, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan Location, 64)
	f.subs[ch] = struct{}{}

	cleanup := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.subs[ch]; ok {
			delete(f.subs, ch)
			close(ch)
		}
	}

	return ch, cleanup
}

// Publish delivers loc to every subscriber. Subscribers with a full
// buffer miss the sample rather than blocking the ingestion path.
func (f *Feed) Publish(loc Location) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for ch := range f.subs {
		select {
		case ch <- loc:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscriptions.
func (f *Feed) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}
