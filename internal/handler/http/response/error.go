package response

import (
	"errors"
	"net/http"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/auth"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/delivery"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/location"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/notification"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/user"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/vehicle"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrNotAuthenticated):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")

	// User domain errors
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, user.ErrDriverAccessRequired):
		Forbidden(w, "Driver account required")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Location domain errors
	case errors.Is(err, location.ErrStorageFailure):
		InternalServerError(w, "Failed to store location")

	// Delivery domain errors
	case errors.Is(err, delivery.ErrDeliveryNotFound):
		NotFound(w, "Delivery not found")

	// Vehicle domain errors
	case errors.Is(err, vehicle.ErrVehicleNotFound):
		NotFound(w, "Vehicle not found")

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
