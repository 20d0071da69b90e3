package location

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedDeliversToAllSubscribers(t *testing.T) {
	feed := NewFeed()

	ch1, cleanup1 := feed.Subscribe()
	defer cleanup1()
	ch2, cleanup2 := feed.Subscribe()
	defer cleanup2()

	feed.Publish(Location{ID: "loc-1", UserID: "driver-1"})

	for _, ch := range []chan Location{ch1, ch2} {
		select {
		case loc := <-ch:
			assert.Equal(t, "loc-1", loc.ID)
		case <-time.After(time.Second):
			t.Fatal("expected a published sample")
		}
	}
}

func TestFeedCleanupReleasesSubscription(t *testing.T) {
	feed := NewFeed()

	ch, cleanup := feed.Subscribe()
	require.Equal(t, 1, feed.SubscriberCount())

	cleanup()
	assert.Equal(t, 0, feed.SubscriberCount())

	_, open := <-ch
	assert.False(t, open)

	// A second call must not panic or close anything twice.
	cleanup()
}

func TestFeedPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	feed := NewFeed()

	_, cleanup := feed.Subscribe()
	defer cleanup()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// More samples than the subscriber buffer holds.
		for i := 0; i < 200; i++ {
			feed.Publish(Location{ID: "loc", UserID: "driver-1"})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish should never block")
	}
}
