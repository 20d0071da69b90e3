package location

import (
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/validator"
)

// IngestRequest is the body of POST /api/v1/locations. Only latitude and
// longitude are checked beyond type; the motion metadata is optional.
type IngestRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  *float64 `json:"accuracy"`
	Altitude  *float64 `json:"altitude"`
	Speed     *float64 `json:"speed"`
	Heading   *float64 `json:"heading"`
}

func (r *IngestRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude == nil || !validator.IsFinite(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be a finite number",
		})
	}

	if r.Longitude == nil || !validator.IsFinite(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be a finite number",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LocationResponse struct {
	ID        string   `json:"id"`
	UserID    string   `json:"user_id"`
	CreatedAt string   `json:"created_at"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Altitude  *float64 `json:"altitude,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
	Heading   *float64 `json:"heading,omitempty"`
}
