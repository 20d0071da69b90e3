package vehicle

import (
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/validator"
)

var validStatuses = []string{StatusAvailable, StatusInUse, StatusMaintenance}

type VehicleRequest struct {
	Name                string  `json:"name"`
	LicensePlate        *string `json:"license_plate"`
	Status              string  `json:"status"`
	InspectionDueDate   *string `json:"inspection_due_date"`
	LastMaintenanceDate *string `json:"last_maintenance_date"`
	Notes               *string `json:"notes"`
}

func (r *VehicleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}

	if !validator.IsInSlice(r.Status, validStatuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of available, in_use, maintenance"})
	}

	dates := map[string]*string{
		"inspection_due_date":   r.InspectionDueDate,
		"last_maintenance_date": r.LastMaintenanceDate,
	}
	for field, value := range dates {
		if value != nil && *value != "" {
			if _, ok := validator.IsValidDate(*value); !ok {
				errs = append(errs, validator.ValidationError{Field: field, Message: field + " must be a YYYY-MM-DD date"})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type VehicleResponse struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	LicensePlate        *string `json:"license_plate,omitempty"`
	Status              string  `json:"status"`
	InspectionDueDate   *string `json:"inspection_due_date,omitempty"`
	LastMaintenanceDate *string `json:"last_maintenance_date,omitempty"`
	Notes               *string `json:"notes,omitempty"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

type VehicleFilter struct {
	Status *string
	Page   int
	Limit  int
}
