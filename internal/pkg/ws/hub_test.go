package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	a := NewClient("viewer-a", nil)
	b := NewClient("viewer-b", nil)
	hub.AddClient(a)
	hub.AddClient(b)

	hub.Broadcast([]byte(`{"type":"marker_update"}`))

	require.Len(t, a.Send, 1)
	require.Len(t, b.Send, 1)
	assert.Equal(t, []byte(`{"type":"marker_update"}`), <-a.Send)
}

func TestBroadcastDropsClientWithFullBuffer(t *testing.T) {
	hub := NewHub()
	stuck := NewClient("stuck", nil)
	healthy := NewClient("healthy", nil)
	hub.AddClient(stuck)
	hub.AddClient(healthy)

	for i := 0; i < cap(stuck.Send); i++ {
		stuck.Send <- []byte("backlog")
	}

	hub.Broadcast([]byte("update"))

	assert.Equal(t, 1, hub.ClientCount())
	assert.Len(t, healthy.Send, 1)
}

func TestRemoveClientClosesSendChannel(t *testing.T) {
	hub := NewHub()
	c := NewClient("viewer", nil)
	hub.AddClient(c)

	hub.RemoveClient("viewer")

	_, open := <-c.Send
	assert.False(t, open)
	assert.Equal(t, 0, hub.ClientCount())

	// Removing twice is a no-op.
	hub.RemoveClient("viewer")
}
