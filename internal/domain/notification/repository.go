package notification

import "context"

type Repository interface {
	// CreateBatch inserts a batch of notifications in one statement
	CreateBatch(ctx context.Context, notifications []*Notification) error

	// ListByRecipient returns a user's notifications, newest first
	ListByRecipient(ctx context.Context, recipientID string, filter NotificationFilter) ([]Notification, int64, error)

	// MarkRead marks one notification as read, scoped to the recipient
	MarkRead(ctx context.Context, id string, recipientID string) error

	// MarkAllRead marks every unread notification for the recipient
	MarkAllRead(ctx context.Context, recipientID string) error
}

type Service interface {
	// Enqueue queues a notification for asynchronous persistence and
	// SSE delivery. Non-blocking; returns ErrQueueFull when saturated.
	Enqueue(req CreateNotificationRequest) error

	// List returns the recipient's notifications.
	List(ctx context.Context, recipientID string, filter NotificationFilter) ([]NotificationResponse, int64, error)

	MarkRead(ctx context.Context, id string, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) error

	// Stop drains the queue and stops the background workers.
	Stop()
}
