package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/delivery"
	"github.com/hakobu-dev/hakobu-backend-go/internal/handler/http/response"
	deliverysvc "github.com/hakobu-dev/hakobu-backend-go/internal/service/delivery"
)

type DeliveryHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	UpdateInvoiceStatus(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type DeliveryHandlerImpl struct {
	deliveryService deliverysvc.DeliveryService
}

func NewDeliveryHandler(deliveryService deliverysvc.DeliveryService) DeliveryHandler {
	return &DeliveryHandlerImpl{deliveryService: deliveryService}
}

// Create implements DeliveryHandler.
func (h *DeliveryHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req delivery.DeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Delivery create decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.deliveryService.Create(r.Context(), identityFromRequest(r), req)
	if err != nil {
		slog.Error("Delivery create service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Delivery created", resp)
}

// GetByID implements DeliveryHandler.
func (h *DeliveryHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	resp, err := h.deliveryService.GetByID(r.Context(), identityFromRequest(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// List implements DeliveryHandler.
func (h *DeliveryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := deliveryFilterFromQuery(r)

	deliveries, total, err := h.deliveryService.List(r.Context(), identityFromRequest(r), filter)
	if err != nil {
		slog.Error("Delivery list service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, deliveries, paginationMeta(filter.Page, filter.Limit, total))
}

// ListMine implements DeliveryHandler.
func (h *DeliveryHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	filter := deliveryFilterFromQuery(r)

	deliveries, total, err := h.deliveryService.ListMine(r.Context(), identityFromRequest(r), filter)
	if err != nil {
		slog.Error("Delivery list mine service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, deliveries, paginationMeta(filter.Page, filter.Limit, total))
}

// Update implements DeliveryHandler.
func (h *DeliveryHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req delivery.DeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Delivery update decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.deliveryService.Update(r.Context(), identityFromRequest(r), chi.URLParam(r, "id"), req)
	if err != nil {
		slog.Error("Delivery update service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Delivery updated", resp)
}

// UpdateInvoiceStatus implements DeliveryHandler.
func (h *DeliveryHandlerImpl) UpdateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	var req delivery.InvoiceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Invoice status decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.deliveryService.UpdateInvoiceStatus(r.Context(), identityFromRequest(r), chi.URLParam(r, "id"), req)
	if err != nil {
		slog.Error("Invoice status service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Invoice status updated", resp)
}

// Delete implements DeliveryHandler.
func (h *DeliveryHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.deliveryService.Delete(r.Context(), identityFromRequest(r), chi.URLParam(r, "id")); err != nil {
		slog.Error("Delivery delete service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Delivery deleted", nil)
}

func deliveryFilterFromQuery(r *http.Request) delivery.DeliveryFilter {
	filter := delivery.DeliveryFilter{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 20),
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}
	if v := r.URL.Query().Get("invoice_status"); v != "" {
		filter.InvoiceStatus = &v
	}
	if v := r.URL.Query().Get("driver_id"); v != "" {
		filter.DriverID = &v
	}
	return filter
}
