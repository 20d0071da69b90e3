package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/location"
	"github.com/hakobu-dev/hakobu-backend-go/internal/handler/http/response"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/validator"
)

type LocationHandler interface {
	Ingest(w http.ResponseWriter, r *http.Request)
}

type LocationHandlerImpl struct {
	locationService location.LocationService
}

func NewLocationHandler(locationService location.LocationService) LocationHandler {
	return &LocationHandlerImpl{locationService: locationService}
}

// Ingest implements LocationHandler. Malformed coordinates come back
// as 400, not 422.
func (h *LocationHandlerImpl) Ingest(w http.ResponseWriter, r *http.Request) {
	var req location.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Ingest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.locationService.Ingest(r.Context(), identityFromRequest(r), req)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			response.BadRequest(w, "Invalid location payload", validationErrs.ToMap())
			return
		}
		slog.Error("Ingest service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Location recorded", resp)
}
