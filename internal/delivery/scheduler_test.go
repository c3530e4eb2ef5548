package delivery

import (
	"context"
	"errors"
	"log/slog"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/routeopt"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeShipmentStore struct {
	ShipmentStore
	pending      []Shipment
	assignCalled []*Route
	assignErr    error
}

func (f *fakeShipmentStore) PendingGeocodedByDate(ctx context.Context, date time.Time) ([]Shipment, error) {
	return f.pending, nil
}

func (f *fakeShipmentStore) AssignBatch(ctx context.Context, routes []*Route) error {
	if f.assignErr != nil {
		return f.assignErr
	}
	f.assignCalled = routes
	return nil
}

type fakeVehicleStore struct {
	VehicleStore
	active []Vehicle
}

func (f *fakeVehicleStore) ListActive(ctx context.Context) ([]Vehicle, error) {
	return f.active, nil
}

type fakeDeliveryEvents struct {
	published int
	err       error
}

func (f *fakeDeliveryEvents) PublishRoutesGenerated(ctx context.Context) error {
	f.published++
	return f.err
}

type fakeBroadcaster struct {
	calls int
}

func (f *fakeBroadcaster) BroadcastRoutesGenerated(ctx context.Context, routeDate time.Time, routeCount int) {
	f.calls++
}

func coord(lat, lon float64) (*decimal.Decimal, *decimal.Decimal) {
	a := decimal.NewFromFloat(lat)
	b := decimal.NewFromFloat(lon)
	return &a, &b
}

func TestScheduler_GenerateRoutes_NoVehicles(t *testing.T) {
	shipments := &fakeShipmentStore{}
	vehicles := &fakeVehicleStore{}
	events := &fakeDeliveryEvents{}
	broadcaster := &fakeBroadcaster{}
	s := NewScheduler(shipments, vehicles, events, broadcaster, discardLogger(), routeopt.Config{AvgSpeedKph: 30, StopMinutes: 5})

	_, err := s.GenerateRoutes(context.Background(), time.Now())
	if errs.KindOf(err) != errs.ValidationRejected {
		t.Fatalf("expected ValidationRejected, got %v", err)
	}
}

func TestScheduler_GenerateRoutes_NoPendingShipments(t *testing.T) {
	shipments := &fakeShipmentStore{}
	vehicles := &fakeVehicleStore{active: []Vehicle{{ID: uuid.New()}}}
	events := &fakeDeliveryEvents{}
	broadcaster := &fakeBroadcaster{}
	s := NewScheduler(shipments, vehicles, events, broadcaster, discardLogger(), routeopt.Config{AvgSpeedKph: 30, StopMinutes: 5})

	routes, err := s.GenerateRoutes(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if routes != nil {
		t.Errorf("expected nil routes, got %v", routes)
	}
	if events.published != 0 {
		t.Error("expected no publish when nothing to assign")
	}
}

func TestScheduler_GenerateRoutes_ClustersAndPersists(t *testing.T) {
	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	lat1, lon1 := coord(4.60, -74.08)
	lat2, lon2 := coord(4.61, -74.09)
	pending := []Shipment{
		{ID: uuid.New(), Latitude: lat1, Longitude: lon1, Status: ShipmentPending, GeocodingStatus: GeocodingSuccess},
		{ID: uuid.New(), Latitude: lat2, Longitude: lon2, Status: ShipmentPending, GeocodingStatus: GeocodingSuccess},
	}
	shipments := &fakeShipmentStore{pending: pending}
	vehicles := &fakeVehicleStore{active: []Vehicle{{ID: uuid.New()}}}
	events := &fakeDeliveryEvents{}
	broadcaster := &fakeBroadcaster{}
	s := NewScheduler(shipments, vehicles, events, broadcaster, discardLogger(), routeopt.Config{AvgSpeedKph: 30, StopMinutes: 5})

	routes, err := s.GenerateRoutes(context.Background(), date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("expected 1 route, got %d", len(routes))
	}
	if routes[0].TotalOrders != 2 {
		t.Errorf("total orders = %d, want 2", routes[0].TotalOrders)
	}
	if shipments.assignCalled == nil {
		t.Fatal("expected AssignBatch to be called")
	}
	if events.published != 1 {
		t.Errorf("expected 1 publish, got %d", events.published)
	}
	if broadcaster.calls != 1 {
		t.Errorf("expected 1 broadcast, got %d", broadcaster.calls)
	}
}

func TestScheduler_GenerateRoutes_PersistFailurePropagates(t *testing.T) {
	date := time.Now()
	lat, lon := coord(4.6, -74.0)
	pending := []Shipment{{ID: uuid.New(), Latitude: lat, Longitude: lon, Status: ShipmentPending, GeocodingStatus: GeocodingSuccess}}
	shipments := &fakeShipmentStore{pending: pending, assignErr: errors.New("db down")}
	vehicles := &fakeVehicleStore{active: []Vehicle{{ID: uuid.New()}}}
	events := &fakeDeliveryEvents{}
	broadcaster := &fakeBroadcaster{}
	s := NewScheduler(shipments, vehicles, events, broadcaster, discardLogger(), routeopt.Config{AvgSpeedKph: 30, StopMinutes: 5})

	_, err := s.GenerateRoutes(context.Background(), date)
	if err == nil {
		t.Fatal("expected error")
	}
	if events.published != 0 {
		t.Error("expected no publish on persistence failure")
	}
}
