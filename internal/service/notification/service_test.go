package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/notification"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationRepo struct {
	mu     sync.Mutex
	stored []*notification.Notification
}

func (f *fakeNotificationRepo) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = append(f.stored, notifications...)
	return nil
}

func (f *fakeNotificationRepo) ListByRecipient(ctx context.Context, recipientID string, filter notification.NotificationFilter) ([]notification.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []notification.Notification
	for _, n := range f.stored {
		if n.RecipientID != recipientID {
			continue
		}
		if filter.UnreadOnly && n.IsRead {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id string, recipientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.stored {
		if n.ID == id && n.RecipientID == recipientID {
			n.IsRead = true
			return nil
		}
	}
	return notification.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, recipientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.stored {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stored)
}

func assignmentRequest(recipient string) notification.CreateNotificationRequest {
	return notification.CreateNotificationRequest{
		RecipientID: recipient,
		Type:        notification.TypeDeliveryAssignment,
		Title:       "New delivery assignment",
		Message:     "You have been assigned to a delivery",
	}
}

func TestStopFlushesQueuedNotifications(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, sse.NewHub(), Config{FlushInterval: time.Hour})

	require.NoError(t, svc.Enqueue(assignmentRequest("driver-1")))
	require.NoError(t, svc.Enqueue(assignmentRequest("driver-2")))

	svc.Stop()

	assert.Equal(t, 2, repo.count())
}

func TestFlushPublishesOverSSE(t *testing.T) {
	repo := &fakeNotificationRepo{}
	hub := sse.NewHub()
	svc := NewNotificationService(repo, hub, Config{FlushInterval: 20 * time.Millisecond})
	defer svc.Stop()

	ch, cleanup := hub.Subscribe("driver-1")
	defer cleanup()

	require.NoError(t, svc.Enqueue(assignmentRequest("driver-1")))

	select {
	case event := <-ch:
		assert.Equal(t, "notification", event.Event)
		resp, ok := event.Data.(notification.NotificationResponse)
		require.True(t, ok)
		assert.Equal(t, "driver-1", resp.RecipientID)
		assert.False(t, resp.IsRead)
		assert.NotEmpty(t, resp.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for SSE event")
	}
}

func TestListScopesToRecipient(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, sse.NewHub(), Config{FlushInterval: time.Hour})

	require.NoError(t, svc.Enqueue(assignmentRequest("driver-1")))
	require.NoError(t, svc.Enqueue(assignmentRequest("driver-2")))
	svc.Stop()

	ctx := context.Background()
	mine, total, err := svc.List(ctx, "driver-1", notification.NotificationFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, "driver-1", mine[0].RecipientID)
}

func TestMarkReadAndUnreadFilter(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, sse.NewHub(), Config{FlushInterval: time.Hour})

	require.NoError(t, svc.Enqueue(assignmentRequest("driver-1")))
	require.NoError(t, svc.Enqueue(assignmentRequest("driver-1")))
	svc.Stop()

	ctx := context.Background()
	all, _, err := svc.List(ctx, "driver-1", notification.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, svc.MarkRead(ctx, all[0].ID, "driver-1"))

	unread, total, err := svc.List(ctx, "driver-1", notification.NotificationFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, unread, 1)
	assert.NotEqual(t, all[0].ID, unread[0].ID)

	require.NoError(t, svc.MarkAllRead(ctx, "driver-1"))
	unread, _, err = svc.List(ctx, "driver-1", notification.NotificationFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unread)
}
