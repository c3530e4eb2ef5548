package delivery

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
)

type fakeShipmentRepo struct {
	ShipmentStore
	byOrderID map[uuid.UUID]*Shipment
}

func newFakeShipmentRepo() *fakeShipmentRepo {
	return &fakeShipmentRepo{byOrderID: map[uuid.UUID]*Shipment{}}
}

func (f *fakeShipmentRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*Shipment, error) {
	sh, ok := f.byOrderID[orderID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *sh
	return &cp, nil
}

func (f *fakeShipmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status ShipmentStatus) error {
	for _, sh := range f.byOrderID {
		if sh.ID == id {
			sh.Status = status
			return nil
		}
	}
	return pgx.ErrNoRows
}

func TestShipmentService_GetByOrderID_NotFound(t *testing.T) {
	repo := newFakeShipmentRepo()
	s := NewShipmentService(repo)

	_, err := s.GetByOrderID(context.Background(), uuid.New())
	if errs.KindOf(err) != errs.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestShipmentService_UpdateStatusByOrderID_AllowedTransition(t *testing.T) {
	repo := newFakeShipmentRepo()
	orderID := uuid.New()
	repo.byOrderID[orderID] = &Shipment{ID: uuid.New(), OrderID: orderID, Status: ShipmentAssigned, EstimatedDeliveryDate: time.Now()}
	s := NewShipmentService(repo)

	sh, err := s.UpdateStatusByOrderID(context.Background(), orderID, ShipmentInTransit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sh.Status != ShipmentInTransit {
		t.Errorf("status = %s, want IN_TRANSIT", sh.Status)
	}
}

func TestShipmentService_UpdateStatusByOrderID_DisallowedTransition(t *testing.T) {
	tt := []struct {
		name string
		from ShipmentStatus
		to   ShipmentStatus
	}{
		{"pending_to_assigned_not_via_http", ShipmentPending, ShipmentAssigned},
		{"assigned_to_delivered_skips_transit", ShipmentAssigned, ShipmentDelivered},
		{"delivered_is_terminal", ShipmentDelivered, ShipmentInTransit},
		{"in_transit_to_pending_backwards", ShipmentInTransit, ShipmentPending},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeShipmentRepo()
			orderID := uuid.New()
			repo.byOrderID[orderID] = &Shipment{ID: uuid.New(), OrderID: orderID, Status: tc.from, EstimatedDeliveryDate: time.Now()}
			s := NewShipmentService(repo)

			_, err := s.UpdateStatusByOrderID(context.Background(), orderID, tc.to)
			if errs.KindOf(err) != errs.ValidationRejected {
				t.Fatalf("expected ValidationRejected transitioning %s->%s, got %v", tc.from, tc.to, err)
			}
		})
	}
}

func TestShipmentService_UpdateStatusByOrderID_NotFound(t *testing.T) {
	repo := newFakeShipmentRepo()
	s := NewShipmentService(repo)

	_, err := s.UpdateStatusByOrderID(context.Background(), uuid.New(), ShipmentInTransit)
	if errs.KindOf(err) != errs.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
