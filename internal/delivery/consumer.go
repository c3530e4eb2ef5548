package delivery

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/eventbus"
)

// OrderConsumer creates a Shipment for every order_created event,
// geocoding its delivery address inline. A geocoding failure does not
// drop the event: the shipment is still created, just left PENDING with
// GeocodingStatus FAILED so it's excluded from route generation until
// someone retries the address.
type OrderConsumer struct {
	store    ConsumerStore
	ledger   Ledger
	geocoder GeocodingService
	logger   *slog.Logger
}

// NewOrderConsumer creates an OrderConsumer.
func NewOrderConsumer(store ConsumerStore, ledger Ledger, geocoder GeocodingService, logger *slog.Logger) *OrderConsumer {
	return &OrderConsumer{store: store, ledger: ledger, geocoder: geocoder, logger: logger}
}

// Handle implements eventbus.Handler.
func (c *OrderConsumer) Handle(ctx context.Context, evt eventbus.Event) error {
	var order OrderCreatedEvent
	if err := json.Unmarshal(evt.Payload, &order); err != nil {
		return eventbus.ErrDrop
	}

	lat, lon, geoErr := c.geocoder.Geocode(ctx, order.DeliveryAddress, order.DeliveryCity, order.DeliveryCountry)
	if geoErr != nil {
		c.logger.Warn("geocoding failed for shipment", "error", geoErr, "order_id", order.OrderID)
	}

	return c.store.WithTx(ctx, func(tx pgx.Tx) error {
		processed, err := c.ledger.HasBeenProcessed(ctx, tx, evt.EventID)
		if err != nil {
			return err
		}
		if processed {
			return nil
		}

		shipment := &Shipment{
			ID:                    uuid.New(),
			OrderID:               order.OrderID,
			CustomerID:            order.CustomerID,
			DeliveryAddress:       order.DeliveryAddress,
			DeliveryCity:          order.DeliveryCity,
			DeliveryCountry:       order.DeliveryCountry,
			GeocodingStatus:       GeocodingSuccess,
			OrderDate:             order.PlacedAt,
			EstimatedDeliveryDate: EstimatedDeliveryDate(order.PlacedAt),
			Status:                ShipmentPending,
		}
		if geoErr != nil {
			shipment.GeocodingStatus = GeocodingFailed
		} else {
			shipment.Latitude = &lat
			shipment.Longitude = &lon
		}

		if err := c.store.CreateShipment(ctx, tx, shipment); err != nil {
			return err
		}
		return c.ledger.MarkAsProcessed(ctx, tx, evt.EventID, evt.EventType)
	})
}

// Consume runs the consumer against opts until ctx is cancelled.
func Consume(ctx context.Context, bus *eventbus.Bus, opts eventbus.ConsumeOptions, c *OrderConsumer) error {
	return bus.Run(ctx, opts, c.Handle)
}
