package delivery

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/routeopt"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/telemetry"
)

// Scheduler runs the delivery-route generation flow (C3's consumer): it
// collects the day's geocoded pending shipments, clusters them across
// the active vehicle fleet via routeopt, and persists the result.
type Scheduler struct {
	shipments   ShipmentStore
	vehicles    VehicleStore
	events      EventPublisher
	broadcaster RealtimeBroadcaster
	logger      *slog.Logger
	cfg         routeopt.Config
}

// NewScheduler creates a Scheduler.
func NewScheduler(shipments ShipmentStore, vehicles VehicleStore, events EventPublisher, broadcaster RealtimeBroadcaster, logger *slog.Logger, cfg routeopt.Config) *Scheduler {
	return &Scheduler{shipments: shipments, vehicles: vehicles, events: events, broadcaster: broadcaster, logger: logger, cfg: cfg}
}

// GenerateRoutes collects the pending, geocoded shipments for date,
// clusters them across every active vehicle, and persists one Route
// per non-empty cluster in a single transaction alongside the shipment
// PENDING -> ASSIGNED transition.
func (s *Scheduler) GenerateRoutes(ctx context.Context, date time.Time) ([]Route, error) {
	active, err := s.vehicles.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, errs.New(errs.ValidationRejected, "at least one vehicle required").WithCode("NoActiveVehicles")
	}

	pending, err := s.shipments.PendingGeocodedByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, nil
	}

	optShipments := make([]routeopt.Shipment, len(pending))
	byID := make(map[uuid.UUID]Shipment, len(pending))
	for i, sh := range pending {
		optShipments[i] = routeopt.Shipment{
			ID:          sh.ID,
			Destination: routeopt.Coordinate{Lat: mustFloat(sh.Latitude), Lon: mustFloat(sh.Longitude)},
		}
		byID[sh.ID] = sh
	}
	optVehicles := make([]routeopt.Vehicle, len(active))
	for i, v := range active {
		optVehicles[i] = routeopt.Vehicle{ID: v.ID}
	}

	results := routeopt.Optimize(optShipments, optVehicles, s.cfg)

	routes := make([]*Route, 0, len(results))
	for _, r := range results {
		if len(r.Shipments) == 0 {
			continue
		}
		route := &Route{
			ID:                   uuid.New(),
			VehicleID:            r.Vehicle.ID,
			RouteDate:            date,
			Status:               RoutePlanned,
			EstimatedDurationMin: r.EstimatedDurationMin,
			TotalDistanceKm:      r.TotalDistanceKm,
			TotalOrders:          len(r.Shipments),
		}
		for seq, optShip := range r.Shipments {
			sh := byID[optShip.ID]
			sh.AssignToRoute(route.ID, seq)
			route.Shipments = append(route.Shipments, sh)
		}
		routes = append(routes, route)
	}

	if len(routes) == 0 {
		return nil, nil
	}

	if err := s.shipments.AssignBatch(ctx, routes); err != nil {
		return nil, err
	}

	if err := s.events.PublishRoutesGenerated(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("delivery_routes_generated publish failed", "error", err)
	}
	s.broadcaster.BroadcastRoutesGenerated(context.WithoutCancel(ctx), date, len(routes))
	telemetry.RouteOptimizationsTotal.Inc()

	out := make([]Route, len(routes))
	for i, r := range routes {
		out[i] = *r
	}
	return out, nil
}

func mustFloat(d *decimal.Decimal) float64 {
	if d == nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}
