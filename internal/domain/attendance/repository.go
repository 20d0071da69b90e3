package attendance

import (
	"context"
)

// AttendanceRepository defines data access for the append-only attendance
// log. There is deliberately no update or delete method.
type AttendanceRepository interface {
	// Create appends a new attendance event
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// GetLatestByUser returns the most recent event for a user, ordered by
	// recorded_at with id as the insertion-order tiebreak. Returns
	// pgx.ErrNoRows when the user has never recorded an event.
	GetLatestByUser(ctx context.Context, userID string) (Attendance, error)

	// ListByUser retrieves a user's events with filters and pagination,
	// newest first.
	ListByUser(ctx context.Context, userID string, filter MyAttendanceFilter) ([]Attendance, int64, error)
}
