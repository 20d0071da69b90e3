package notification

import "time"

// Notification types.
const (
	TypeDirectRequest      = "direct_request"      // direct-go / direct-return awaiting approval
	TypeDeliveryAssignment = "delivery_assignment" // a delivery was assigned to a driver
)

type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        string
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	CreatedAt   time.Time
}
