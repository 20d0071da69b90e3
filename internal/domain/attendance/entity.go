package attendance

import (
	"time"
)

// Type is the kind of attendance event a driver records.
type Type string

const (
	TypeCheckIn      Type = "check_in"
	TypeCheckOut     Type = "check_out"
	TypeDirectGo     Type = "direct_go"
	TypeDirectReturn Type = "direct_return"
)

// StatusNeverCheckedIn is the derived status for a user with no events.
const StatusNeverCheckedIn = "never-checked-in"

// Approval states for direct-go / direct-return requests.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Attendance is one immutable event in a driver's attendance log.
// Rows are append-only: no update or delete path exists.
type Attendance struct {
	ID             string
	UserID         string
	Type           Type
	RecordedAt     time.Time // server-assigned, never client-supplied
	Latitude       float64
	Longitude      float64
	Accuracy       *float64
	Altitude       *float64
	Speed          *float64
	Heading        *float64
	Notes          *string // only for direct_go / direct_return
	ApprovalStatus *string // only for direct_go / direct_return
}

// IsDirectRequest reports whether t needs admin approval.
func (t Type) IsDirectRequest() bool {
	return t == TypeDirectGo || t == TypeDirectReturn
}
