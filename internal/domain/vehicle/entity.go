package vehicle

import "time"

// Vehicle statuses.
const (
	StatusAvailable   = "available"
	StatusInUse       = "in_use"
	StatusMaintenance = "maintenance"
)

type Vehicle struct {
	ID                  string
	Name                string
	LicensePlate        *string
	Status              string
	InspectionDueDate   *time.Time
	LastMaintenanceDate *time.Time
	Notes               *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
