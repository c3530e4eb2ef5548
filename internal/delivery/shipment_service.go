package delivery

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
)

// ShipmentService implements the shipment read and status-update use cases.
type ShipmentService struct {
	shipments ShipmentStore
}

// NewShipmentService creates a ShipmentService.
func NewShipmentService(shipments ShipmentStore) *ShipmentService {
	return &ShipmentService{shipments: shipments}
}

// GetByOrderID returns the shipment for an order.
func (s *ShipmentService) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*Shipment, error) {
	sh, err := s.shipments.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.New(errs.NotFound, "shipment not found").WithCode("ShipmentNotFound")
		}
		return nil, err
	}
	return sh, nil
}

// UpdateStatusByOrderID transitions the shipment for orderID to newStatus,
// enforcing the forward-only lattice (no backward transitions, no
// skipping ASSIGNED -> IN_TRANSIT -> DELIVERED).
func (s *ShipmentService) UpdateStatusByOrderID(ctx context.Context, orderID uuid.UUID, newStatus ShipmentStatus) (*Shipment, error) {
	sh, err := s.shipments.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.New(errs.NotFound, "shipment not found").WithCode("ShipmentNotFound")
		}
		return nil, err
	}

	if !isAllowedShipmentTransition(sh.Status, newStatus) {
		return nil, errs.Newf(errs.ValidationRejected, "cannot transition shipment from %s to %s", sh.Status, newStatus).WithCode("InvalidStatusTransition")
	}

	if err := s.shipments.UpdateStatus(ctx, sh.ID, newStatus); err != nil {
		return nil, err
	}
	sh.Status = newStatus
	return sh, nil
}

// isAllowedShipmentTransition enforces the forward-only lattice. PENDING
// -> ASSIGNED only happens through route assignment (Shipment.AssignToRoute),
// never through this status-update path.
func isAllowedShipmentTransition(from, to ShipmentStatus) bool {
	switch from {
	case ShipmentAssigned:
		return to == ShipmentInTransit
	case ShipmentInTransit:
		return to == ShipmentDelivered
	default:
		return false
	}
}
