package attendance

import (
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/validator"
)

// LocationPayload is the geolocation fix attached to every attendance
// operation. Latitude and longitude are pointers so a missing field can
// be told apart from zero.
type LocationPayload struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  *float64 `json:"accuracy"`
	Altitude  *float64 `json:"altitude"`
	Speed     *float64 `json:"speed"`
	Heading   *float64 `json:"heading"`
}

func (p *LocationPayload) Validate() error {
	var errs validator.ValidationErrors

	if p.Latitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude is required",
		})
	} else if !validator.IsFinite(*p.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be a finite number",
		})
	}

	if p.Longitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude is required",
		})
	} else if !validator.IsFinite(*p.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be a finite number",
		})
	}

	optional := map[string]*float64{
		"accuracy": p.Accuracy,
		"altitude": p.Altitude,
		"speed":    p.Speed,
		"heading":  p.Heading,
	}
	for field, value := range optional {
		if !validator.IsFiniteOrNil(value) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be a finite number or null",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DirectRequest is the body for direct-go and direct-return requests.
// Notes carry the driver's reason; an empty string is accepted and
// stored as-is.
type DirectRequest struct {
	LocationPayload
	Notes string `json:"notes"`
}

func (r *DirectRequest) Validate() error {
	return r.LocationPayload.Validate()
}

type AttendanceResponse struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	Type           string   `json:"attendance_type"`
	RecordedAt     string   `json:"recorded_at"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Accuracy       *float64 `json:"accuracy,omitempty"`
	Altitude       *float64 `json:"altitude,omitempty"`
	Speed          *float64 `json:"speed,omitempty"`
	Heading        *float64 `json:"heading,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
	ApprovalStatus *string  `json:"approval_status,omitempty"`
}

// StatusResponse is the derived presence state for a driver, plus the
// actions the UI should offer next.
type StatusResponse struct {
	Status      string   `json:"status"`
	NextActions []string `json:"next_actions"`
}

type MyAttendanceFilter struct {
	StartDate *string
	EndDate   *string
	Page      int
	Limit     int
}
