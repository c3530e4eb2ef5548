// Package delivery implements the delivery-domain entities and the
// route-generation flow that sits on top of the route optimizer (C3):
// shipments are created from order_created events, geocoded, and
// periodically clustered into routes across the active vehicle fleet.
package delivery

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShipmentStatus is the delivery lattice a Shipment moves through.
// Transitions only move forward: PENDING -> ASSIGNED -> IN_TRANSIT -> DELIVERED.
type ShipmentStatus string

const (
	ShipmentPending   ShipmentStatus = "PENDING"
	ShipmentAssigned  ShipmentStatus = "ASSIGNED"
	ShipmentInTransit ShipmentStatus = "IN_TRANSIT"
	ShipmentDelivered ShipmentStatus = "DELIVERED"
)

// GeocodingStatus tracks whether a shipment's address has been resolved
// to coordinates yet.
type GeocodingStatus string

const (
	GeocodingPending GeocodingStatus = "PENDING"
	GeocodingSuccess GeocodingStatus = "SUCCESS"
	GeocodingFailed  GeocodingStatus = "FAILED"
)

// RouteStatus is the lifecycle of a generated Route.
type RouteStatus string

const (
	RoutePlanned    RouteStatus = "PLANNED"
	RouteInProgress RouteStatus = "IN_PROGRESS"
	RouteCompleted  RouteStatus = "COMPLETED"
	RouteCancelled  RouteStatus = "CANCELLED"
)

// deliveryLeadDays is the default gap between an order's placement and
// its estimated delivery date.
const deliveryLeadDays = 1

// EstimatedDeliveryDate returns placedAt + deliveryLeadDays, truncated to
// a calendar date in UTC.
func EstimatedDeliveryDate(placedAt time.Time) time.Time {
	d := placedAt.UTC().AddDate(0, 0, deliveryLeadDays)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// Shipment is the persisted aggregate tracking one order's physical
// delivery, from address geocoding through route assignment.
type Shipment struct {
	ID                    uuid.UUID
	OrderID               uuid.UUID
	CustomerID            uuid.UUID
	DeliveryAddress       string
	DeliveryCity          string
	DeliveryCountry       string
	Latitude              *decimal.Decimal
	Longitude             *decimal.Decimal
	GeocodingStatus       GeocodingStatus
	RouteID               *uuid.UUID
	SequenceInRoute       *int
	OrderDate             time.Time
	EstimatedDeliveryDate time.Time
	Status                ShipmentStatus
}

// AssignToRoute mutates a PENDING shipment to ASSIGNED, recording its
// route and delivery sequence. Returns false if the shipment isn't
// PENDING (the caller should treat that as a logic error, not retry).
func (s *Shipment) AssignToRoute(routeID uuid.UUID, sequence int) bool {
	if s.Status != ShipmentPending {
		return false
	}
	s.RouteID = &routeID
	s.SequenceInRoute = &sequence
	s.Status = ShipmentAssigned
	return true
}

// Vehicle is a delivery fleet unit available to carry routes.
type Vehicle struct {
	ID          uuid.UUID
	Placa       string
	DriverName  string
	DriverPhone *string
	IsActive    bool
}

// Route is the persisted result of one optimizer run for one vehicle:
// an ordered sequence of shipments with aggregate distance and duration.
type Route struct {
	ID                   uuid.UUID
	VehicleID            uuid.UUID
	RouteDate            time.Time
	Status               RouteStatus
	EstimatedDurationMin int
	TotalDistanceKm      decimal.Decimal
	TotalOrders          int
	Shipments            []Shipment // ordered by SequenceInRoute
}

// OrderCreatedEvent mirrors the wire payload internal/orders publishes;
// only the fields the delivery consumer needs to create a shipment.
type OrderCreatedEvent struct {
	OrderID         uuid.UUID `json:"order_id"`
	CustomerID      uuid.UUID `json:"customer_id"`
	PlacedAt        time.Time `json:"placed_at"`
	DeliveryAddress string    `json:"delivery_address"`
	DeliveryCity    string    `json:"delivery_city"`
	DeliveryCountry string    `json:"delivery_country"`
}
