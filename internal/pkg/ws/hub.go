package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is one connected WebSocket viewer. Writes go through Send so a
// slow client never blocks a broadcast.
type Client struct {
	ID       string
	Conn     *websocket.Conn
	Send     chan []byte
	LastPong time.Time
}

func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:       id,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		LastPong: time.Now(),
	}
}

// Hub fans broadcast messages out to every connected client.
type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

func (h *Hub) AddClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
}

func (h *Hub) RemoveClient(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		close(c.Send)
		delete(h.clients, id)
	}
}

// Broadcast queues message for every client. Clients whose send buffer is
// full are dropped rather than stalling the caller.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	var stale []string
	for id, client := range h.clients {
		select {
		case client.Send <- message:
		default:
			stale = append(stale, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range stale {
		h.RemoveClient(id)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
