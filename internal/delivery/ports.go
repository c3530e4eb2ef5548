package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/idempotency"
)

// GeocodingService resolves a street address to coordinates.
type GeocodingService interface {
	Geocode(ctx context.Context, address, city, country string) (lat, lon decimal.Decimal, err error)
}

// ShipmentStore persists and queries shipments.
type ShipmentStore interface {
	Get(ctx context.Context, id uuid.UUID) (*Shipment, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*Shipment, error)
	UpdateGeocoding(ctx context.Context, s *Shipment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status ShipmentStatus) error
	PendingGeocodedByDate(ctx context.Context, date time.Time) ([]Shipment, error)
	// AssignBatch transitions every shipment in routes from PENDING
	// to ASSIGNED under a single transaction, alongside creating routes.
	AssignBatch(ctx context.Context, routes []*Route) error
}

// VehicleStore persists and queries the delivery fleet.
type VehicleStore interface {
	Create(ctx context.Context, v *Vehicle) error
	Get(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	GetByPlaca(ctx context.Context, placa string) (*Vehicle, error)
	Update(ctx context.Context, v *Vehicle) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context) ([]Vehicle, error)
}

// RouteStore queries persisted routes (creation happens transactionally
// through ShipmentStore.AssignBatch, alongside shipment assignment).
type RouteStore interface {
	Get(ctx context.Context, id uuid.UUID) (*Route, error)
	ListByDate(ctx context.Context, date time.Time) ([]Route, error)
}

// EventPublisher publishes the void delivery_routes_generated trigger.
type EventPublisher interface {
	PublishRoutesGenerated(ctx context.Context) error
}

// RealtimeBroadcaster pushes a routes-generated notification to
// connected operator dashboards, independent of the durable event above.
type RealtimeBroadcaster interface {
	BroadcastRoutesGenerated(ctx context.Context, routeDate time.Time, routeCount int)
}

// ConsumerStore is the transactional surface the order-consumer uses:
// one transaction scopes both the shipment insert and the idempotency
// marker, so a crash between them is harmless.
type ConsumerStore interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
	CreateShipment(ctx context.Context, tx pgx.Tx, s *Shipment) error
}

// Ledger is the idempotency port the order-consumer depends on. The
// concrete implementation is internal/idempotency.Ledger, reused as-is
// rather than reimplemented.
type Ledger interface {
	HasBeenProcessed(ctx context.Context, dbtx idempotency.DBTX, eventID uuid.UUID) (bool, error)
	MarkAsProcessed(ctx context.Context, dbtx idempotency.DBTX, eventID uuid.UUID, eventType string) error
}
