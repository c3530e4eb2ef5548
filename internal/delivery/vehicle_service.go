package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
)

// VehicleService implements the vehicle fleet CRUD use cases.
type VehicleService struct {
	vehicles VehicleStore
}

// NewVehicleService creates a VehicleService.
func NewVehicleService(vehicles VehicleStore) *VehicleService {
	return &VehicleService{vehicles: vehicles}
}

// CreateVehicleRequest is the input to Create.
type CreateVehicleRequest struct {
	Placa       string
	DriverName  string
	DriverPhone *string
}

// Create validates placa uniqueness and persists a new active vehicle.
func (s *VehicleService) Create(ctx context.Context, req CreateVehicleRequest) (*Vehicle, error) {
	_, err := s.vehicles.GetByPlaca(ctx, req.Placa)
	if err == nil {
		return nil, errs.New(errs.ValidationRejected, fmt.Sprintf("vehicle with placa %s already exists", req.Placa)).WithCode("DuplicatePlaca")
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	v := &Vehicle{
		ID:          uuid.New(),
		Placa:       req.Placa,
		DriverName:  req.DriverName,
		DriverPhone: req.DriverPhone,
		IsActive:    true,
	}
	if err := s.vehicles.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// UpdateVehicleRequest is the input to Update; nil fields leave the
// existing value unchanged.
type UpdateVehicleRequest struct {
	VehicleID   uuid.UUID
	DriverName  *string
	DriverPhone *string
}

// Update applies a partial update to a vehicle's driver fields.
func (s *VehicleService) Update(ctx context.Context, req UpdateVehicleRequest) (*Vehicle, error) {
	v, err := s.vehicles.Get(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.New(errs.NotFound, "vehicle not found").WithCode("VehicleNotFound")
		}
		return nil, err
	}

	if req.DriverName != nil {
		v.DriverName = *req.DriverName
	}
	if req.DriverPhone != nil {
		v.DriverPhone = req.DriverPhone
	}

	if err := s.vehicles.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete deactivates (soft-deletes) a vehicle.
func (s *VehicleService) Delete(ctx context.Context, vehicleID uuid.UUID) error {
	if _, err := s.vehicles.Get(ctx, vehicleID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.New(errs.NotFound, "vehicle not found").WithCode("VehicleNotFound")
		}
		return err
	}
	return s.vehicles.Deactivate(ctx, vehicleID)
}

// ListActive returns every active vehicle.
func (s *VehicleService) ListActive(ctx context.Context) ([]Vehicle, error) {
	return s.vehicles.ListActive(ctx)
}
