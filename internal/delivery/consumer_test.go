package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/eventbus"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/idempotency"
)

type fakeConsumerStore struct {
	created []*Shipment
}

func (f *fakeConsumerStore) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

func (f *fakeConsumerStore) CreateShipment(ctx context.Context, tx pgx.Tx, s *Shipment) error {
	f.created = append(f.created, s)
	return nil
}

type fakeDeliveryLedger struct {
	processed map[uuid.UUID]bool
}

func newFakeDeliveryLedger() *fakeDeliveryLedger {
	return &fakeDeliveryLedger{processed: map[uuid.UUID]bool{}}
}

func (f *fakeDeliveryLedger) HasBeenProcessed(ctx context.Context, dbtx idempotency.DBTX, eventID uuid.UUID) (bool, error) {
	return f.processed[eventID], nil
}

func (f *fakeDeliveryLedger) MarkAsProcessed(ctx context.Context, dbtx idempotency.DBTX, eventID uuid.UUID, eventType string) error {
	f.processed[eventID] = true
	return nil
}

type fakeGeocoder struct {
	lat, lon decimal.Decimal
	err      error
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address, city, country string) (decimal.Decimal, decimal.Decimal, error) {
	return f.lat, f.lon, f.err
}

func newOrderCreatedEvent(t *testing.T, order OrderCreatedEvent) eventbus.Event {
	t.Helper()
	payload, err := json.Marshal(order)
	if err != nil {
		t.Fatalf("marshalling order payload: %v", err)
	}
	return eventbus.Event{
		EventID:   uuid.New(),
		EventType: "order_created",
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

func TestOrderConsumer_CreatesGeocodedShipment(t *testing.T) {
	store := &fakeConsumerStore{}
	ledger := newFakeDeliveryLedger()
	geocoder := &fakeGeocoder{lat: decimal.NewFromFloat(4.6), lon: decimal.NewFromFloat(-74.0)}
	c := NewOrderConsumer(store, ledger, geocoder, discardLogger())

	order := OrderCreatedEvent{
		OrderID:         uuid.New(),
		CustomerID:      uuid.New(),
		PlacedAt:        time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		DeliveryAddress: "Calle 1",
		DeliveryCity:    "Bogota",
		DeliveryCountry: "CO",
	}
	evt := newOrderCreatedEvent(t, order)

	if err := c.Handle(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("expected 1 shipment created, got %d", len(store.created))
	}
	sh := store.created[0]
	if sh.OrderID != order.OrderID {
		t.Errorf("order ID mismatch")
	}
	if sh.GeocodingStatus != GeocodingSuccess {
		t.Errorf("geocoding status = %s, want SUCCESS", sh.GeocodingStatus)
	}
	if sh.Latitude == nil || !sh.Latitude.Equal(decimal.NewFromFloat(4.6)) {
		t.Errorf("latitude not set correctly")
	}
	if !sh.EstimatedDeliveryDate.Equal(time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("estimated delivery date = %v", sh.EstimatedDeliveryDate)
	}
	if !ledger.processed[evt.EventID] {
		t.Error("expected event to be marked processed")
	}
}

func TestOrderConsumer_GeocodingFailureStillCreatesShipment(t *testing.T) {
	store := &fakeConsumerStore{}
	ledger := newFakeDeliveryLedger()
	geocoder := &fakeGeocoder{err: errors.New("geocoder unreachable")}
	c := NewOrderConsumer(store, ledger, geocoder, discardLogger())

	order := OrderCreatedEvent{
		OrderID:         uuid.New(),
		CustomerID:      uuid.New(),
		PlacedAt:        time.Now().UTC(),
		DeliveryAddress: "Calle 1",
		DeliveryCity:    "Bogota",
		DeliveryCountry: "CO",
	}
	evt := newOrderCreatedEvent(t, order)

	if err := c.Handle(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("expected shipment still created despite geocoding failure, got %d", len(store.created))
	}
	sh := store.created[0]
	if sh.GeocodingStatus != GeocodingFailed {
		t.Errorf("geocoding status = %s, want FAILED", sh.GeocodingStatus)
	}
	if sh.Latitude != nil {
		t.Error("expected no latitude set on geocoding failure")
	}
}

func TestOrderConsumer_DuplicateEventIsNoOp(t *testing.T) {
	store := &fakeConsumerStore{}
	ledger := newFakeDeliveryLedger()
	geocoder := &fakeGeocoder{lat: decimal.NewFromFloat(4.6), lon: decimal.NewFromFloat(-74.0)}
	c := NewOrderConsumer(store, ledger, geocoder, discardLogger())

	order := OrderCreatedEvent{
		OrderID:         uuid.New(),
		CustomerID:      uuid.New(),
		PlacedAt:        time.Now().UTC(),
		DeliveryAddress: "Calle 1",
		DeliveryCity:    "Bogota",
		DeliveryCountry: "CO",
	}
	evt := newOrderCreatedEvent(t, order)
	ledger.processed[evt.EventID] = true

	if err := c.Handle(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.created) != 0 {
		t.Errorf("expected no shipment created for already-processed event, got %d", len(store.created))
	}
}

func TestOrderConsumer_MalformedPayloadIsDropped(t *testing.T) {
	store := &fakeConsumerStore{}
	ledger := newFakeDeliveryLedger()
	geocoder := &fakeGeocoder{}
	c := NewOrderConsumer(store, ledger, geocoder, discardLogger())

	evt := eventbus.Event{
		EventID:   uuid.New(),
		EventType: "order_created",
		Timestamp: time.Now().UTC(),
		Payload:   []byte("not json"),
	}

	if err := c.Handle(context.Background(), evt); !errors.Is(err, eventbus.ErrDrop) {
		t.Fatalf("expected ErrDrop, got %v", err)
	}
}
