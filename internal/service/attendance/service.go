package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/attendance"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/auth"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/notification"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/user"
	"github.com/jackc/pgx/v5"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	userRepo       user.UserRepository
	notifier       notification.Service
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	notifier notification.Service,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		notifier:       notifier,
	}
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, id auth.Identity, loc attendance.LocationPayload) (attendance.AttendanceResponse, error) {
	return a.record(ctx, id, loc, attendance.TypeCheckIn, nil)
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, id auth.Identity, loc attendance.LocationPayload) (attendance.AttendanceResponse, error) {
	return a.record(ctx, id, loc, attendance.TypeCheckOut, nil)
}

// RequestDirectGo implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RequestDirectGo(ctx context.Context, id auth.Identity, req attendance.DirectRequest) (attendance.AttendanceResponse, error) {
	if err := a.requireIdentity(id); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return a.record(ctx, id, req.LocationPayload, attendance.TypeDirectGo, &req.Notes)
}

// RequestDirectReturn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RequestDirectReturn(ctx context.Context, id auth.Identity, req attendance.DirectRequest) (attendance.AttendanceResponse, error) {
	if err := a.requireIdentity(id); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return a.record(ctx, id, req.LocationPayload, attendance.TypeDirectReturn, &req.Notes)
}

// record appends one event. The identity check runs before validation,
// validation before persistence; there is no deduplication of repeated
// identical events.
func (a *AttendanceServiceImpl) record(ctx context.Context, id auth.Identity, loc attendance.LocationPayload, typ attendance.Type, notes *string) (attendance.AttendanceResponse, error) {
	if err := a.requireIdentity(id); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if err := loc.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att := attendance.Attendance{
		UserID:     id.UserID,
		Type:       typ,
		RecordedAt: time.Now().UTC(),
		Latitude:   *loc.Latitude,
		Longitude:  *loc.Longitude,
		Accuracy:   loc.Accuracy,
		Altitude:   loc.Altitude,
		Speed:      loc.Speed,
		Heading:    loc.Heading,
	}

	if typ.IsDirectRequest() {
		att.Notes = notes
		pending := attendance.ApprovalPending
		att.ApprovalStatus = &pending
	}

	created, err := a.attendanceRepo.Create(ctx, att)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to record attendance: %w", err)
	}

	if typ.IsDirectRequest() {
		a.notifyAdmins(ctx, id, created)
	}

	return toResponse(created), nil
}

// notifyAdmins queues an approval notification for every admin account.
// Best effort: a notification failure never fails the recorded event.
func (a *AttendanceServiceImpl) notifyAdmins(ctx context.Context, id auth.Identity, att attendance.Attendance) {
	adminIDs, err := a.userRepo.ListIDsByRole(ctx, user.RoleAdmin)
	if err != nil {
		slog.Error("Failed to list admins for direct request notification", "error", err)
		return
	}

	title := "Direct-go request"
	if att.Type == attendance.TypeDirectReturn {
		title = "Direct-return request"
	}

	senderID := id.UserID
	for _, adminID := range adminIDs {
		err := a.notifier.Enqueue(notification.CreateNotificationRequest{
			RecipientID: adminID,
			SenderID:    &senderID,
			Type:        notification.TypeDirectRequest,
			Title:       title,
			Message:     fmt.Sprintf("%s filed a %s request awaiting approval", id.Name, att.Type),
			Data: map[string]interface{}{
				"attendance_id":   att.ID,
				"attendance_type": string(att.Type),
			},
		})
		if err != nil {
			slog.Error("Failed to enqueue direct request notification", "error", err, "recipient", adminID)
		}
	}
}

// Status implements attendance.AttendanceService. The state is derived
// from the most recent event on every read; there is no cache.
func (a *AttendanceServiceImpl) Status(ctx context.Context, id auth.Identity) (attendance.StatusResponse, error) {
	if err := a.requireIdentity(id); err != nil {
		return attendance.StatusResponse{}, err
	}

	latest, err := a.attendanceRepo.GetLatestByUser(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return deriveStatus(attendance.StatusNeverCheckedIn), nil
		}
		return attendance.StatusResponse{}, fmt.Errorf("failed to derive attendance status: %w", err)
	}

	return deriveStatus(string(latest.Type)), nil
}

// deriveStatus maps the latest event type to the actions offered next.
// After check_out, direct_return, or no history at all, the driver is off
// duty and may check in or request a direct go; otherwise they are on
// duty and may check out or request a direct return.
func deriveStatus(status string) attendance.StatusResponse {
	switch status {
	case string(attendance.TypeCheckOut), string(attendance.TypeDirectReturn), attendance.StatusNeverCheckedIn:
		return attendance.StatusResponse{
			Status:      status,
			NextActions: []string{string(attendance.TypeCheckIn), string(attendance.TypeDirectGo)},
		}
	default:
		return attendance.StatusResponse{
			Status:      status,
			NextActions: []string{string(attendance.TypeCheckOut), string(attendance.TypeDirectReturn)},
		}
	}
}

// ListMy implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListMy(ctx context.Context, id auth.Identity, filter attendance.MyAttendanceFilter) ([]attendance.AttendanceResponse, int64, error) {
	if err := a.requireIdentity(id); err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	events, total, err := a.attendanceRepo.ListByUser(ctx, id.UserID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance events: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, len(events))
	for i, att := range events {
		responses[i] = toResponse(att)
	}

	return responses, total, nil
}

func (a *AttendanceServiceImpl) requireIdentity(id auth.Identity) error {
	if !id.Authenticated() {
		return auth.ErrNotAuthenticated
	}
	return nil
}

func toResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:             att.ID,
		UserID:         att.UserID,
		Type:           string(att.Type),
		RecordedAt:     att.RecordedAt.Format(time.RFC3339),
		Latitude:       att.Latitude,
		Longitude:      att.Longitude,
		Accuracy:       att.Accuracy,
		Altitude:       att.Altitude,
		Speed:          att.Speed,
		Heading:        att.Heading,
		Notes:          att.Notes,
		ApprovalStatus: att.ApprovalStatus,
	}
}
