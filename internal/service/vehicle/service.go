package vehicle

import (
	"context"
	"fmt"
	"time"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/auth"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/user"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/vehicle"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/validator"
)

type VehicleService interface {
	Create(ctx context.Context, identity auth.Identity, req vehicle.VehicleRequest) (*vehicle.VehicleResponse, error)
	GetByID(ctx context.Context, identity auth.Identity, id string) (*vehicle.VehicleResponse, error)
	List(ctx context.Context, identity auth.Identity, filter vehicle.VehicleFilter) ([]vehicle.VehicleResponse, int64, error)
	Update(ctx context.Context, identity auth.Identity, id string, req vehicle.VehicleRequest) (*vehicle.VehicleResponse, error)
	Delete(ctx context.Context, identity auth.Identity, id string) error
}

type VehicleServiceImpl struct {
	vehicleRepo vehicle.VehicleRepository
}

func NewVehicleService(vehicleRepo vehicle.VehicleRepository) VehicleService {
	return &VehicleServiceImpl{vehicleRepo: vehicleRepo}
}

func (s *VehicleServiceImpl) Create(ctx context.Context, identity auth.Identity, req vehicle.VehicleRequest) (*vehicle.VehicleResponse, error) {
	if err := s.requireAdmin(identity); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	created, err := s.vehicleRepo.Create(ctx, fromRequest(req))
	if err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	resp := toResponse(created)
	return &resp, nil
}

func (s *VehicleServiceImpl) GetByID(ctx context.Context, identity auth.Identity, id string) (*vehicle.VehicleResponse, error) {
	if err := s.requireAdmin(identity); err != nil {
		return nil, err
	}

	v, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toResponse(v)
	return &resp, nil
}

func (s *VehicleServiceImpl) List(ctx context.Context, identity auth.Identity, filter vehicle.VehicleFilter) ([]vehicle.VehicleResponse, int64, error) {
	if err := s.requireAdmin(identity); err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	vehicles, total, err := s.vehicleRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list vehicles: %w", err)
	}

	responses := make([]vehicle.VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		responses = append(responses, toResponse(v))
	}
	return responses, total, nil
}

func (s *VehicleServiceImpl) Update(ctx context.Context, identity auth.Identity, id string, req vehicle.VehicleRequest) (*vehicle.VehicleResponse, error) {
	if err := s.requireAdmin(identity); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	v := fromRequest(req)
	v.ID = id
	if err := s.vehicleRepo.Update(ctx, v); err != nil {
		return nil, err
	}

	updated, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toResponse(updated)
	return &resp, nil
}

func (s *VehicleServiceImpl) Delete(ctx context.Context, identity auth.Identity, id string) error {
	if err := s.requireAdmin(identity); err != nil {
		return err
	}
	return s.vehicleRepo.Delete(ctx, id)
}

func (s *VehicleServiceImpl) requireAdmin(identity auth.Identity) error {
	if !identity.Authenticated() {
		return auth.ErrNotAuthenticated
	}
	if !identity.IsAdmin() {
		return user.ErrAdminAccessRequired
	}
	return nil
}

func fromRequest(req vehicle.VehicleRequest) vehicle.Vehicle {
	v := vehicle.Vehicle{
		Name:         req.Name,
		LicensePlate: req.LicensePlate,
		Status:       req.Status,
		Notes:        req.Notes,
	}
	if req.InspectionDueDate != nil && *req.InspectionDueDate != "" {
		if t, ok := validator.IsValidDate(*req.InspectionDueDate); ok {
			v.InspectionDueDate = &t
		}
	}
	if req.LastMaintenanceDate != nil && *req.LastMaintenanceDate != "" {
		if t, ok := validator.IsValidDate(*req.LastMaintenanceDate); ok {
			v.LastMaintenanceDate = &t
		}
	}
	return v
}

func toResponse(v vehicle.Vehicle) vehicle.VehicleResponse {
	resp := vehicle.VehicleResponse{
		ID:           v.ID,
		Name:         v.Name,
		LicensePlate: v.LicensePlate,
		Status:       v.Status,
		Notes:        v.Notes,
		CreatedAt:    v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    v.UpdatedAt.Format(time.RFC3339),
	}
	if v.InspectionDueDate != nil {
		d := v.InspectionDueDate.Format("2006-01-02")
		resp.InspectionDueDate = &d
	}
	if v.LastMaintenanceDate != nil {
		d := v.LastMaintenanceDate.Format("2006-01-02")
		resp.LastMaintenanceDate = &d
	}
	return resp
}
