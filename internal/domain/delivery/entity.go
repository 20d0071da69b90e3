package delivery

import "time"

// Delivery statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Invoice statuses.
const (
	InvoiceUnbilled = "unbilled"
	InvoiceBilled   = "billed"
	InvoicePaid     = "paid"
)

type Delivery struct {
	ID                string
	Title             string
	CustomerName      string
	DeliveryAddress   string
	ScheduledAt       *time.Time
	Status            string
	AssignedDriverID  *string
	AssignedVehicleID *string
	BaseCharge        float64
	DistanceCharge    float64
	WeightCharge      float64
	ItemCountCharge   float64
	InvoiceStatus     string
	BilledAt          *time.Time
	PaidAt            *time.Time
	Notes             *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// DTO / Join
	DriverName  *string
	VehicleName *string
}

// TotalCharge sums the charge components.
func (d *Delivery) TotalCharge() float64 {
	return d.BaseCharge + d.DistanceCharge + d.WeightCharge + d.ItemCountCharge
}
