package postgresql

import (
	"context"
	"fmt"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/location"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/database"
)

type locationRepository struct {
	db *database.DB
}

func NewLocationRepository(db *database.DB) location.LocationRepository {
	return &locationRepository{db: db}
}

// Create implements location.LocationRepository.
func (l *locationRepository) Create(ctx context.Context, loc location.Location) (location.Location, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO locations (
			user_id, latitude, longitude, accuracy, altitude, speed, heading
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		loc.UserID,
		loc.Latitude,
		loc.Longitude,
		loc.Accuracy,
		loc.Altitude,
		loc.Speed,
		loc.Heading,
	).Scan(&loc.ID, &loc.CreatedAt)

	if err != nil {
		return location.Location{}, fmt.Errorf("failed to create location sample: %w", err)
	}

	return loc, nil
}

// ListAll implements location.LocationRepository.
func (l *locationRepository) ListAll(ctx context.Context) ([]location.Location, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT id, user_id, created_at, latitude, longitude, accuracy, altitude, speed, heading
		FROM locations
		ORDER BY created_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var locations []location.Location
	for rows.Next() {
		var loc location.Location
		if err := rows.Scan(
			&loc.ID, &loc.UserID, &loc.CreatedAt,
			&loc.Latitude, &loc.Longitude, &loc.Accuracy, &loc.Altitude, &loc.Speed, &loc.Heading,
		); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		locations = append(locations, loc)
	}

	return locations, rows.Err()
}
