package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/vehicle"
	"github.com/hakobu-dev/hakobu-backend-go/internal/handler/http/response"
	vehiclesvc "github.com/hakobu-dev/hakobu-backend-go/internal/service/vehicle"
)

type VehicleHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type VehicleHandlerImpl struct {
	vehicleService vehiclesvc.VehicleService
}

func NewVehicleHandler(vehicleService vehiclesvc.VehicleService) VehicleHandler {
	return &VehicleHandlerImpl{vehicleService: vehicleService}
}

// Create implements VehicleHandler.
func (h *VehicleHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req vehicle.VehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Vehicle create decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.vehicleService.Create(r.Context(), identityFromRequest(r), req)
	if err != nil {
		slog.Error("Vehicle create service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Vehicle created", resp)
}

// GetByID implements VehicleHandler.
func (h *VehicleHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	resp, err := h.vehicleService.GetByID(r.Context(), identityFromRequest(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// List implements VehicleHandler.
func (h *VehicleHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := vehicle.VehicleFilter{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 20),
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}

	vehicles, total, err := h.vehicleService.List(r.Context(), identityFromRequest(r), filter)
	if err != nil {
		slog.Error("Vehicle list service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, vehicles, paginationMeta(filter.Page, filter.Limit, total))
}

// Update implements VehicleHandler.
func (h *VehicleHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req vehicle.VehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Vehicle update decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.vehicleService.Update(r.Context(), identityFromRequest(r), chi.URLParam(r, "id"), req)
	if err != nil {
		slog.Error("Vehicle update service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Vehicle updated", resp)
}

// Delete implements VehicleHandler.
func (h *VehicleHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.vehicleService.Delete(r.Context(), identityFromRequest(r), chi.URLParam(r, "id")); err != nil {
		slog.Error("Vehicle delete service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Vehicle deleted", nil)
}
