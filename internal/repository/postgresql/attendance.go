package postgresql

import (
	"context"
	"fmt"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/attendance"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			user_id, attendance_type, recorded_at,
			latitude, longitude, accuracy, altitude, speed, heading,
			notes, approval_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING id
	`

	err := q.QueryRow(ctx, query,
		att.UserID,
		string(att.Type),
		att.RecordedAt,
		att.Latitude,
		att.Longitude,
		att.Accuracy,
		att.Altitude,
		att.Speed,
		att.Heading,
		att.Notes,
		att.ApprovalStatus,
	).Scan(&att.ID)

	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance event: %w", err)
	}

	return att, nil
}

// GetLatestByUser implements attendance.AttendanceRepository.
// Ties on recorded_at are broken by id; ids are UUIDv7 so this follows
// insertion order.
func (a *attendanceRepository) GetLatestByUser(ctx context.Context, userID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, user_id, attendance_type, recorded_at,
			   latitude, longitude, accuracy, altitude, speed, heading,
			   notes, approval_status
		FROM attendances
		WHERE user_id = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1
	`

	var att attendance.Attendance
	err := q.QueryRow(ctx, query, userID).Scan(
		&att.ID, &att.UserID, &att.Type, &att.RecordedAt,
		&att.Latitude, &att.Longitude, &att.Accuracy, &att.Altitude, &att.Speed, &att.Heading,
		&att.Notes, &att.ApprovalStatus,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}

	return att, nil
}

// ListByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUser(ctx context.Context, userID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	where := "WHERE user_id = $1"
	args := []interface{}{userID}
	argPos := 2

	if filter.StartDate != nil {
		where += fmt.Sprintf(" AND recorded_at >= $%d", argPos)
		args = append(args, *filter.StartDate)
		argPos++
	}
	if filter.EndDate != nil {
		where += fmt.Sprintf(" AND recorded_at < ($%d::date + 1)", argPos)
		args = append(args, *filter.EndDate)
		argPos++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM attendances " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance events: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, attendance_type, recorded_at,
			   latitude, longitude, accuracy, altitude, speed, heading,
			   notes, approval_status
		FROM attendances
		%s
		ORDER BY recorded_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance events: %w", err)
	}
	defer rows.Close()

	var events []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		if err := rows.Scan(
			&att.ID, &att.UserID, &att.Type, &att.RecordedAt,
			&att.Latitude, &att.Longitude, &att.Accuracy, &att.Altitude, &att.Speed, &att.Heading,
			&att.Notes, &att.ApprovalStatus,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		events = append(events, att)
	}

	return events, total, rows.Err()
}
