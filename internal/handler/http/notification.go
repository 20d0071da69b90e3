package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/notification"
	"github.com/hakobu-dev/hakobu-backend-go/internal/handler/http/response"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/jwt"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/sse"
)

type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
	MarkAllRead(w http.ResponseWriter, r *http.Request)
	StreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type NotificationHandlerImpl struct {
	notifService notification.Service
	hub          *sse.Hub
	jwtService   jwt.Service
}

func NewNotificationHandler(notifService notification.Service, hub *sse.Hub, jwtService jwt.Service) NotificationHandler {
	return &NotificationHandlerImpl{
		notifService: notifService,
		hub:          hub,
		jwtService:   jwtService,
	}
}

// List returns the authenticated user's notifications, newest first.
func (h *NotificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	identity := identityFromRequest(r)
	if !identity.Authenticated() {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter := notification.NotificationFilter{
		UnreadOnly: r.URL.Query().Get("unread_only") == "true",
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
	}

	notifications, total, err := h.notifService.List(r.Context(), identity.UserID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, notifications, paginationMeta(filter.Page, filter.Limit, total))
}

// MarkRead marks one notification as read.
func (h *NotificationHandlerImpl) MarkRead(w http.ResponseWriter, r *http.Request) {
	identity := identityFromRequest(r)
	if !identity.Authenticated() {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	if err := h.notifService.MarkRead(r.Context(), chi.URLParam(r, "id"), identity.UserID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notification marked as read", nil)
}

// MarkAllRead marks every unread notification as read.
func (h *NotificationHandlerImpl) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	identity := identityFromRequest(r)
	if !identity.Authenticated() {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	if err := h.notifService.MarkAllRead(r.Context(), identity.UserID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "All notifications marked as read", nil)
}

// StreamToken issues a short-lived token for the SSE handshake.
func (h *NotificationHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	identity := identityFromRequest(r)
	if !identity.Authenticated() {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateStreamToken(identity.UserID, identity.Role)
	if err != nil {
		response.InternalServerError(w, "Failed to issue stream token")
		return
	}

	response.Success(w, map[string]interface{}{
		"stream_token": token,
		"expires_in":   expiresIn,
	})
}

// Stream handles the SSE connection for real-time notifications.
func (h *NotificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// SSE cannot send custom headers; the token travels in the query.
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	userID, _, err := h.jwtService.ValidateStreamToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(userID)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":\"%s\"}\n\n", userID)
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
