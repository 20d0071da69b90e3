package delivery

import (
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/validator"
)

var validStatuses = []string{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}
var validInvoiceStatuses = []string{InvoiceUnbilled, InvoiceBilled, InvoicePaid}

// DeliveryRequest is the create/update body for a delivery record.
type DeliveryRequest struct {
	Title             string  `json:"title"`
	CustomerName      string  `json:"customer_name"`
	DeliveryAddress   string  `json:"delivery_address"`
	ScheduledAt       *string `json:"scheduled_at"`
	Status            string  `json:"status"`
	AssignedDriverID  *string `json:"assigned_driver_id"`
	AssignedVehicleID *string `json:"assigned_vehicle_id"`
	BaseCharge        float64 `json:"base_charge"`
	DistanceCharge    float64 `json:"distance_charge"`
	WeightCharge      float64 `json:"weight_charge"`
	ItemCountCharge   float64 `json:"item_count_charge"`
	InvoiceStatus     string  `json:"invoice_status"`
	Notes             *string `json:"notes"`
}

func (r *DeliveryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{Field: "title", Message: "title is required"})
	}
	if validator.IsEmpty(r.CustomerName) {
		errs = append(errs, validator.ValidationError{Field: "customer_name", Message: "customer_name is required"})
	}
	if validator.IsEmpty(r.DeliveryAddress) {
		errs = append(errs, validator.ValidationError{Field: "delivery_address", Message: "delivery_address is required"})
	}

	if r.ScheduledAt != nil && *r.ScheduledAt != "" {
		if _, ok := validator.IsValidDateTime(*r.ScheduledAt); !ok {
			errs = append(errs, validator.ValidationError{Field: "scheduled_at", Message: "scheduled_at must be an ISO8601 timestamp"})
		}
	}

	if !validator.IsInSlice(r.Status, validStatuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of pending, in_progress, completed, cancelled"})
	}

	// Invoice status defaults to unbilled on create.
	if r.InvoiceStatus != "" && !validator.IsInSlice(r.InvoiceStatus, validInvoiceStatuses) {
		errs = append(errs, validator.ValidationError{Field: "invoice_status", Message: "invoice_status must be one of unbilled, billed, paid"})
	}

	charges := map[string]float64{
		"base_charge":       r.BaseCharge,
		"distance_charge":   r.DistanceCharge,
		"weight_charge":     r.WeightCharge,
		"item_count_charge": r.ItemCountCharge,
	}
	for field, value := range charges {
		if value < 0 {
			errs = append(errs, validator.ValidationError{Field: field, Message: field + " must be 0 or greater"})
		}
	}

	if r.AssignedDriverID != nil && !validator.IsValidUUID(*r.AssignedDriverID) {
		errs = append(errs, validator.ValidationError{Field: "assigned_driver_id", Message: "assigned_driver_id must be a valid UUID"})
	}
	if r.AssignedVehicleID != nil && !validator.IsValidUUID(*r.AssignedVehicleID) {
		errs = append(errs, validator.ValidationError{Field: "assigned_vehicle_id", Message: "assigned_vehicle_id must be a valid UUID"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// InvoiceStatusRequest changes only the invoice state of a delivery.
type InvoiceStatusRequest struct {
	InvoiceStatus string `json:"invoice_status"`
}

func (r *InvoiceStatusRequest) Validate() error {
	if !validator.IsInSlice(r.InvoiceStatus, validInvoiceStatuses) {
		return validator.ValidationErrors{{
			Field:   "invoice_status",
			Message: "invoice_status must be one of unbilled, billed, paid",
		}}
	}
	return nil
}

type DeliveryResponse struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	CustomerName      string  `json:"customer_name"`
	DeliveryAddress   string  `json:"delivery_address"`
	ScheduledAt       *string `json:"scheduled_at,omitempty"`
	Status            string  `json:"status"`
	AssignedDriverID  *string `json:"assigned_driver_id,omitempty"`
	AssignedVehicleID *string `json:"assigned_vehicle_id,omitempty"`
	DriverName        *string `json:"driver_name,omitempty"`
	VehicleName       *string `json:"vehicle_name,omitempty"`
	BaseCharge        float64 `json:"base_charge"`
	DistanceCharge    float64 `json:"distance_charge"`
	WeightCharge      float64 `json:"weight_charge"`
	ItemCountCharge   float64 `json:"item_count_charge"`
	TotalCharge       float64 `json:"total_charge"`
	InvoiceStatus     string  `json:"invoice_status"`
	BilledAt          *string `json:"billed_at,omitempty"`
	PaidAt            *string `json:"paid_at,omitempty"`
	Notes             *string `json:"notes,omitempty"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

type DeliveryFilter struct {
	Status        *string
	InvoiceStatus *string
	DriverID      *string
	Page          int
	Limit         int
}
