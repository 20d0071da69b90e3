package vehicle

import "errors"

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrInvalidStatus   = errors.New("invalid vehicle status")
)
