package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/delivery"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type deliveryRepository struct {
	db *database.DB
}

func NewDeliveryRepository(db *database.DB) delivery.DeliveryRepository {
	return &deliveryRepository{db: db}
}

const deliveryColumns = `
	d.id, d.title, d.customer_name, d.delivery_address, d.scheduled_at, d.status,
	d.assigned_driver_id, d.assigned_vehicle_id,
	d.base_charge, d.distance_charge, d.weight_charge, d.item_count_charge,
	d.invoice_status, d.billed_at, d.paid_at, d.notes,
	d.created_at, d.updated_at,
	u.name AS driver_name, v.name AS vehicle_name
`

const deliveryJoins = `
	LEFT JOIN users u ON u.id = d.assigned_driver_id
	LEFT JOIN vehicles v ON v.id = d.assigned_vehicle_id
`

func scanDelivery(row pgx.Row) (delivery.Delivery, error) {
	var d delivery.Delivery
	err := row.Scan(
		&d.ID, &d.Title, &d.CustomerName, &d.DeliveryAddress, &d.ScheduledAt, &d.Status,
		&d.AssignedDriverID, &d.AssignedVehicleID,
		&d.BaseCharge, &d.DistanceCharge, &d.WeightCharge, &d.ItemCountCharge,
		&d.InvoiceStatus, &d.BilledAt, &d.PaidAt, &d.Notes,
		&d.CreatedAt, &d.UpdatedAt,
		&d.DriverName, &d.VehicleName,
	)
	return d, err
}

// Create implements delivery.DeliveryRepository.
func (r *deliveryRepository) Create(ctx context.Context, d delivery.Delivery) (delivery.Delivery, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO deliveries (
			title, customer_name, delivery_address, scheduled_at, status,
			assigned_driver_id, assigned_vehicle_id,
			base_charge, distance_charge, weight_charge, item_count_charge,
			invoice_status, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		d.Title, d.CustomerName, d.DeliveryAddress, d.ScheduledAt, d.Status,
		d.AssignedDriverID, d.AssignedVehicleID,
		d.BaseCharge, d.DistanceCharge, d.WeightCharge, d.ItemCountCharge,
		d.InvoiceStatus, d.Notes,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)

	if err != nil {
		return delivery.Delivery{}, fmt.Errorf("failed to create delivery: %w", err)
	}

	return d, nil
}

// GetByID implements delivery.DeliveryRepository.
func (r *deliveryRepository) GetByID(ctx context.Context, id string) (delivery.Delivery, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + deliveryColumns + ` FROM deliveries d ` + deliveryJoins + ` WHERE d.id = $1`

	d, err := scanDelivery(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return delivery.Delivery{}, delivery.ErrDeliveryNotFound
		}
		return delivery.Delivery{}, fmt.Errorf("failed to get delivery: %w", err)
	}

	return d, nil
}

func (r *deliveryRepository) list(ctx context.Context, where string, args []interface{}, page, limit int) ([]delivery.Delivery, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	countQuery := `SELECT COUNT(*) FROM deliveries d ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count deliveries: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM deliveries d %s %s ORDER BY d.created_at DESC LIMIT $%d OFFSET $%d`,
		deliveryColumns, deliveryJoins, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []delivery.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan delivery row: %w", err)
		}
		deliveries = append(deliveries, d)
	}

	return deliveries, total, rows.Err()
}

// List implements delivery.DeliveryRepository.
func (r *deliveryRepository) List(ctx context.Context, filter delivery.DeliveryFilter) ([]delivery.Delivery, int64, error) {
	where := "WHERE 1=1"
	var args []interface{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND d.status = $%d", len(args))
	}
	if filter.InvoiceStatus != nil {
		args = append(args, *filter.InvoiceStatus)
		where += fmt.Sprintf(" AND d.invoice_status = $%d", len(args))
	}
	if filter.DriverID != nil {
		args = append(args, *filter.DriverID)
		where += fmt.Sprintf(" AND d.assigned_driver_id = $%d", len(args))
	}

	return r.list(ctx, where, args, filter.Page, filter.Limit)
}

// ListByDriver implements delivery.DeliveryRepository.
func (r *deliveryRepository) ListByDriver(ctx context.Context, driverID string, filter delivery.DeliveryFilter) ([]delivery.Delivery, int64, error) {
	where := "WHERE d.assigned_driver_id = $1"
	args := []interface{}{driverID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND d.status = $%d", len(args))
	}

	return r.list(ctx, where, args, filter.Page, filter.Limit)
}

// Update implements delivery.DeliveryRepository.
func (r *deliveryRepository) Update(ctx context.Context, d delivery.Delivery) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE deliveries SET
			title = $2, customer_name = $3, delivery_address = $4, scheduled_at = $5,
			status = $6, assigned_driver_id = $7, assigned_vehicle_id = $8,
			base_charge = $9, distance_charge = $10, weight_charge = $11, item_count_charge = $12,
			invoice_status = $13, billed_at = $14, paid_at = $15, notes = $16,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		d.ID, d.Title, d.CustomerName, d.DeliveryAddress, d.ScheduledAt,
		d.Status, d.AssignedDriverID, d.AssignedVehicleID,
		d.BaseCharge, d.DistanceCharge, d.WeightCharge, d.ItemCountCharge,
		d.InvoiceStatus, d.BilledAt, d.PaidAt, d.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return delivery.ErrDeliveryNotFound
	}

	return nil
}

// UpdateInvoiceStatus implements delivery.DeliveryRepository.
func (r *deliveryRepository) UpdateInvoiceStatus(ctx context.Context, d delivery.Delivery) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE deliveries SET
			invoice_status = $2, billed_at = $3, paid_at = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, d.ID, d.InvoiceStatus, d.BilledAt, d.PaidAt)
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return delivery.ErrDeliveryNotFound
	}

	return nil
}

// Delete implements delivery.DeliveryRepository.
func (r *deliveryRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM deliveries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return delivery.ErrDeliveryNotFound
	}

	return nil
}
