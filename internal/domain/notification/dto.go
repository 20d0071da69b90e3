package notification

type CreateNotificationRequest struct {
	RecipientID string
	SenderID    *string
	Type        string
	Title       string
	Message     string
	Data        map[string]interface{}
}

type NotificationResponse struct {
	ID          string                 `json:"id"`
	RecipientID string                 `json:"recipient_id"`
	SenderID    *string                `json:"sender_id,omitempty"`
	Type        string                 `json:"type"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Data        map[string]interface{} `json:"data,omitempty"`
	IsRead      bool                   `json:"is_read"`
	CreatedAt   string                 `json:"created_at"`
}

type NotificationFilter struct {
	UnreadOnly bool
	Page       int
	Limit      int
}
