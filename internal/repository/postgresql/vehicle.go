package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/vehicle"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type vehicleRepository struct {
	db *database.DB
}

func NewVehicleRepository(db *database.DB) vehicle.VehicleRepository {
	return &vehicleRepository{db: db}
}

// Create implements vehicle.VehicleRepository.
func (r *vehicleRepository) Create(ctx context.Context, v vehicle.Vehicle) (vehicle.Vehicle, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO vehicles (
			name, license_plate, status, inspection_due_date, last_maintenance_date, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		v.Name, v.LicensePlate, v.Status, v.InspectionDueDate, v.LastMaintenanceDate, v.Notes,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)

	if err != nil {
		return vehicle.Vehicle{}, fmt.Errorf("failed to create vehicle: %w", err)
	}

	return v, nil
}

// GetByID implements vehicle.VehicleRepository.
func (r *vehicleRepository) GetByID(ctx context.Context, id string) (vehicle.Vehicle, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, license_plate, status, inspection_due_date, last_maintenance_date,
			   notes, created_at, updated_at
		FROM vehicles
		WHERE id = $1
	`

	var v vehicle.Vehicle
	err := q.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Name, &v.LicensePlate, &v.Status, &v.InspectionDueDate, &v.LastMaintenanceDate,
		&v.Notes, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return vehicle.Vehicle{}, vehicle.ErrVehicleNotFound
		}
		return vehicle.Vehicle{}, fmt.Errorf("failed to get vehicle: %w", err)
	}

	return v, nil
}

// List implements vehicle.VehicleRepository.
func (r *vehicleRepository) List(ctx context.Context, filter vehicle.VehicleFilter) ([]vehicle.Vehicle, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "WHERE 1=1"
	var args []interface{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM vehicles " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicles: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, license_plate, status, inspection_due_date, last_maintenance_date,
			   notes, created_at, updated_at
		FROM vehicles
		%s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []vehicle.Vehicle
	for rows.Next() {
		var v vehicle.Vehicle
		if err := rows.Scan(
			&v.ID, &v.Name, &v.LicensePlate, &v.Status, &v.InspectionDueDate, &v.LastMaintenanceDate,
			&v.Notes, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan vehicle row: %w", err)
		}
		vehicles = append(vehicles, v)
	}

	return vehicles, total, rows.Err()
}

// Update implements vehicle.VehicleRepository.
func (r *vehicleRepository) Update(ctx context.Context, v vehicle.Vehicle) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE vehicles SET
			name = $2, license_plate = $3, status = $4,
			inspection_due_date = $5, last_maintenance_date = $6, notes = $7,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		v.ID, v.Name, v.LicensePlate, v.Status, v.InspectionDueDate, v.LastMaintenanceDate, v.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return vehicle.ErrVehicleNotFound
	}

	return nil
}

// Delete implements vehicle.VehicleRepository.
func (r *vehicleRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return vehicle.ErrVehicleNotFound
	}

	return nil
}
