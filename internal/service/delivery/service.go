package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/auth"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/delivery"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/notification"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/user"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/validator"
)

type DeliveryService interface {
	Create(ctx context.Context, identity auth.Identity, req delivery.DeliveryRequest) (*delivery.DeliveryResponse, error)
	GetByID(ctx context.Context, identity auth.Identity, id string) (*delivery.DeliveryResponse, error)
	List(ctx context.Context, identity auth.Identity, filter delivery.DeliveryFilter) ([]delivery.DeliveryResponse, int64, error)
	ListMine(ctx context.Context, identity auth.Identity, filter delivery.DeliveryFilter) ([]delivery.DeliveryResponse, int64, error)
	Update(ctx context.Context, identity auth.Identity, id string, req delivery.DeliveryRequest) (*delivery.DeliveryResponse, error)
	UpdateInvoiceStatus(ctx context.Context, identity auth.Identity, id string, req delivery.InvoiceStatusRequest) (*delivery.DeliveryResponse, error)
	Delete(ctx context.Context, identity auth.Identity, id string) error
}

type DeliveryServiceImpl struct {
	deliveryRepo delivery.DeliveryRepository
	notifier     notification.Service
}

func NewDeliveryService(deliveryRepo delivery.DeliveryRepository, notifier notification.Service) DeliveryService {
	return &DeliveryServiceImpl{
		deliveryRepo: deliveryRepo,
		notifier:     notifier,
	}
}

func (s *DeliveryServiceImpl) Create(ctx context.Context, identity auth.Identity, req delivery.DeliveryRequest) (*delivery.DeliveryResponse, error) {
	if !identity.Authenticated() {
		return nil, auth.ErrNotAuthenticated
	}
	if !identity.IsAdmin() {
		return nil, user.ErrAdminAccessRequired
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d := fromRequest(req)
	if d.InvoiceStatus == "" {
		d.InvoiceStatus = delivery.InvoiceUnbilled
	}

	created, err := s.deliveryRepo.Create(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery: %w", err)
	}

	if created.AssignedDriverID != nil {
		s.notifyAssignment(identity, created)
	}

	resp := toResponse(created)
	return &resp, nil
}

func (s *DeliveryServiceImpl) GetByID(ctx context.Context, identity auth.Identity, id string) (*delivery.DeliveryResponse, error) {
	if !identity.Authenticated() {
		return nil, auth.ErrNotAuthenticated
	}

	d, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Drivers may only read deliveries assigned to them.
	if !identity.IsAdmin() {
		if d.AssignedDriverID == nil || *d.AssignedDriverID != identity.UserID {
			return nil, delivery.ErrDeliveryNotFound
		}
	}

	resp := toResponse(d)
	return &resp, nil
}

func (s *DeliveryServiceImpl) List(ctx context.Context, identity auth.Identity, filter delivery.DeliveryFilter) ([]delivery.DeliveryResponse, int64, error) {
	if !identity.Authenticated() {
		return nil, 0, auth.ErrNotAuthenticated
	}
	if !identity.IsAdmin() {
		return nil, 0, user.ErrAdminAccessRequired
	}

	normalizeFilter(&filter)

	deliveries, total, err := s.deliveryRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list deliveries: %w", err)
	}

	return toResponses(deliveries), total, nil
}

func (s *DeliveryServiceImpl) ListMine(ctx context.Context, identity auth.Identity, filter delivery.DeliveryFilter) ([]delivery.DeliveryResponse, int64, error) {
	if !identity.Authenticated() {
		return nil, 0, auth.ErrNotAuthenticated
	}

	normalizeFilter(&filter)

	deliveries, total, err := s.deliveryRepo.ListByDriver(ctx, identity.UserID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list driver deliveries: %w", err)
	}

	return toResponses(deliveries), total, nil
}

func (s *DeliveryServiceImpl) Update(ctx context.Context, identity auth.Identity, id string, req delivery.DeliveryRequest) (*delivery.DeliveryResponse, error) {
	if !identity.Authenticated() {
		return nil, auth.ErrNotAuthenticated
	}
	if !identity.IsAdmin() {
		return nil, user.ErrAdminAccessRequired
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d := fromRequest(req)
	d.ID = existing.ID
	if d.InvoiceStatus == "" {
		d.InvoiceStatus = existing.InvoiceStatus
	}

	if err := s.deliveryRepo.Update(ctx, d); err != nil {
		return nil, err
	}

	updated, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Notify only on a fresh assignment, not on every edit.
	if updated.AssignedDriverID != nil && !sameDriver(existing.AssignedDriverID, updated.AssignedDriverID) {
		s.notifyAssignment(identity, updated)
	}

	resp := toResponse(updated)
	return &resp, nil
}

// UpdateInvoiceStatus transitions the invoice state and stamps billed_at
// or paid_at server-side; clients never supply those timestamps.
func (s *DeliveryServiceImpl) UpdateInvoiceStatus(ctx context.Context, identity auth.Identity, id string, req delivery.InvoiceStatusRequest) (*delivery.DeliveryResponse, error) {
	if !identity.Authenticated() {
		return nil, auth.ErrNotAuthenticated
	}
	if !identity.IsAdmin() {
		return nil, user.ErrAdminAccessRequired
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	d.InvoiceStatus = req.InvoiceStatus
	switch req.InvoiceStatus {
	case delivery.InvoiceBilled:
		d.BilledAt = &now
		d.PaidAt = nil
	case delivery.InvoicePaid:
		if d.BilledAt == nil {
			d.BilledAt = &now
		}
		d.PaidAt = &now
	case delivery.InvoiceUnbilled:
		d.BilledAt = nil
		d.PaidAt = nil
	}

	if err := s.deliveryRepo.UpdateInvoiceStatus(ctx, d); err != nil {
		return nil, err
	}

	updated, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toResponse(updated)
	return &resp, nil
}

func (s *DeliveryServiceImpl) Delete(ctx context.Context, identity auth.Identity, id string) error {
	if !identity.Authenticated() {
		return auth.ErrNotAuthenticated
	}
	if !identity.IsAdmin() {
		return user.ErrAdminAccessRequired
	}
	return s.deliveryRepo.Delete(ctx, id)
}

// Best effort: assignment notifications never fail the write.
func (s *DeliveryServiceImpl) notifyAssignment(identity auth.Identity, d delivery.Delivery) {
	senderID := identity.UserID
	err := s.notifier.Enqueue(notification.CreateNotificationRequest{
		RecipientID: *d.AssignedDriverID,
		SenderID:    &senderID,
		Type:        notification.TypeDeliveryAssignment,
		Title:       "New delivery assignment",
		Message:     fmt.Sprintf("You have been assigned to delivery %q", d.Title),
		Data: map[string]interface{}{
			"delivery_id": d.ID,
			"status":      d.Status,
		},
	})
	if err != nil {
		slog.Error("Failed to enqueue assignment notification", "delivery_id", d.ID, "error", err)
	}
}

func normalizeFilter(filter *delivery.DeliveryFilter) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
}

func sameDriver(a, b *string) bool {
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

func fromRequest(req delivery.DeliveryRequest) delivery.Delivery {
	d := delivery.Delivery{
		Title:             req.Title,
		CustomerName:      req.CustomerName,
		DeliveryAddress:   req.DeliveryAddress,
		Status:            req.Status,
		AssignedDriverID:  req.AssignedDriverID,
		AssignedVehicleID: req.AssignedVehicleID,
		BaseCharge:        req.BaseCharge,
		DistanceCharge:    req.DistanceCharge,
		WeightCharge:      req.WeightCharge,
		ItemCountCharge:   req.ItemCountCharge,
		InvoiceStatus:     req.InvoiceStatus,
		Notes:             req.Notes,
	}
	if req.ScheduledAt != nil && *req.ScheduledAt != "" {
		if t, ok := validator.IsValidDateTime(*req.ScheduledAt); ok {
			d.ScheduledAt = &t
		}
	}
	return d
}

func toResponse(d delivery.Delivery) delivery.DeliveryResponse {
	resp := delivery.DeliveryResponse{
		ID:                d.ID,
		Title:             d.Title,
		CustomerName:      d.CustomerName,
		DeliveryAddress:   d.DeliveryAddress,
		Status:            d.Status,
		AssignedDriverID:  d.AssignedDriverID,
		AssignedVehicleID: d.AssignedVehicleID,
		DriverName:        d.DriverName,
		VehicleName:       d.VehicleName,
		BaseCharge:        d.BaseCharge,
		DistanceCharge:    d.DistanceCharge,
		WeightCharge:      d.WeightCharge,
		ItemCountCharge:   d.ItemCountCharge,
		TotalCharge:       d.TotalCharge(),
		InvoiceStatus:     d.InvoiceStatus,
		Notes:             d.Notes,
		CreatedAt:         d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         d.UpdatedAt.Format(time.RFC3339),
	}
	if d.ScheduledAt != nil {
		v := d.ScheduledAt.Format(time.RFC3339)
		resp.ScheduledAt = &v
	}
	if d.BilledAt != nil {
		v := d.BilledAt.Format(time.RFC3339)
		resp.BilledAt = &v
	}
	if d.PaidAt != nil {
		v := d.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}
	return resp
}

func toResponses(deliveries []delivery.Delivery) []delivery.DeliveryResponse {
	responses := make([]delivery.DeliveryResponse, 0, len(deliveries))
	for _, d := range deliveries {
		responses = append(responses, toResponse(d))
	}
	return responses
}
