package vehicle

import "context"

// VehicleRepository defines data access for the vehicle fleet.
type VehicleRepository interface {
	Create(ctx context.Context, v Vehicle) (Vehicle, error)
	GetByID(ctx context.Context, id string) (Vehicle, error)
	List(ctx context.Context, filter VehicleFilter) ([]Vehicle, int64, error)
	Update(ctx context.Context, v Vehicle) error
	Delete(ctx context.Context, id string) error
}
