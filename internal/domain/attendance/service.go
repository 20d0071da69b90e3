package attendance

import (
	"context"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/auth"
)

// AttendanceService records attendance events and derives the current
// presence state. Every operation takes the caller's identity explicitly.
type AttendanceService interface {
	CheckIn(ctx context.Context, id auth.Identity, loc LocationPayload) (AttendanceResponse, error)
	CheckOut(ctx context.Context, id auth.Identity, loc LocationPayload) (AttendanceResponse, error)
	RequestDirectGo(ctx context.Context, id auth.Identity, req DirectRequest) (AttendanceResponse, error)
	RequestDirectReturn(ctx context.Context, id auth.Identity, req DirectRequest) (AttendanceResponse, error)

	// Status derives the caller's presence state from the latest event.
	Status(ctx context.Context, id auth.Identity) (StatusResponse, error)

	// ListMy returns the caller's attendance log, newest first.
	ListMy(ctx context.Context, id auth.Identity, filter MyAttendanceFilter) ([]AttendanceResponse, int64, error)
}
