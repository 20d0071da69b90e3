package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/user"
	"github.com/hakobu-dev/hakobu-backend-go/internal/handler/http/response"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/jwt"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/ws"
	"github.com/hakobu-dev/hakobu-backend-go/internal/service/livemap"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type LiveMapHandler interface {
	Markers(w http.ResponseWriter, r *http.Request)
	StreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type LiveMapHandlerImpl struct {
	aggregator *livemap.Aggregator
	hub        *ws.Hub
	jwtService jwt.Service
}

func NewLiveMapHandler(aggregator *livemap.Aggregator, hub *ws.Hub, jwtService jwt.Service) LiveMapHandler {
	return &LiveMapHandlerImpl{
		aggregator: aggregator,
		hub:        hub,
		jwtService: jwtService,
	}
}

// Markers returns the current marker snapshot.
func (h *LiveMapHandlerImpl) Markers(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.aggregator.Snapshot())
}

// StreamToken issues a short-lived token for the WebSocket handshake,
// where the access token cannot travel in a header.
func (h *LiveMapHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	identity := identityFromRequest(r)

	token, expiresIn, err := h.jwtService.GenerateStreamToken(identity.UserID, identity.Role)
	if err != nil {
		slog.Error("StreamToken generation error", "error", err)
		response.InternalServerError(w, "Failed to issue stream token")
		return
	}

	response.Success(w, map[string]interface{}{
		"stream_token": token,
		"expires_in":   expiresIn,
	})
}

// Stream upgrades to a WebSocket and pushes marker updates. The
// handshake authenticates with a stream token in the query string.
func (h *LiveMapHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.Unauthorized(w, "Stream token required")
		return
	}

	userID, role, err := h.jwtService.ValidateStreamToken(token)
	if err != nil {
		response.Unauthorized(w, "Invalid stream token")
		return
	}
	if role != user.RoleAdmin {
		response.Forbidden(w, "Admin access required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}

	client := ws.NewClient(userID+"_"+uuid.New().String(), conn)
	h.hub.AddClient(client)
	slog.Info("Live map viewer connected", "user_id", userID, "viewers", h.hub.ClientCount())

	// Send the current snapshot so the map renders before the first
	// live update arrives.
	if snapshot, err := snapshotMessage(h.aggregator.Snapshot()); err == nil {
		client.Send <- snapshot
	}

	go h.writePump(client)
	go h.readPump(client, userID)
}

func (h *LiveMapHandlerImpl) writePump(client *ws.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := client.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}
}

func (h *LiveMapHandlerImpl) readPump(client *ws.Client, userID string) {
	defer func() {
		h.hub.RemoveClient(client.ID)
		client.Conn.Close()
		slog.Info("Live map viewer disconnected", "user_id", userID, "viewers", h.hub.ClientCount())
	}()

	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.LastPong = time.Now()
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Viewers never send application messages; the read loop only
	// services control frames and connection errors.
	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func snapshotMessage(markers []livemap.Marker) ([]byte, error) {
	return json.Marshal(struct {
		Event   string           `json:"event"`
		Markers []livemap.Marker `json:"markers"`
	}{Event: "snapshot", Markers: markers})
}
