package delivery

import "context"

// DeliveryRepository defines data access for delivery records.
type DeliveryRepository interface {
	Create(ctx context.Context, d Delivery) (Delivery, error)
	GetByID(ctx context.Context, id string) (Delivery, error)
	List(ctx context.Context, filter DeliveryFilter) ([]Delivery, int64, error)
	Update(ctx context.Context, d Delivery) error
	Delete(ctx context.Context, id string) error

	// UpdateInvoiceStatus transitions only the invoice fields; billed_at
	// and paid_at are stamped server-side by the caller.
	UpdateInvoiceStatus(ctx context.Context, d Delivery) error

	// ListByDriver returns deliveries assigned to a driver, newest first.
	ListByDriver(ctx context.Context, driverID string, filter DeliveryFilter) ([]Delivery, int64, error)
}
