package orders

import (
	"context"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/eventbus"
)

// StreamPublisher publishes order_created onto a Redis stream via the
// shared event bus.
type StreamPublisher struct {
	bus       *eventbus.Bus
	streamKey string
}

// NewStreamPublisher creates a StreamPublisher targeting streamKey.
func NewStreamPublisher(bus *eventbus.Bus, streamKey string) *StreamPublisher {
	return &StreamPublisher{bus: bus, streamKey: streamKey}
}

// PublishOrderCreated implements EventPublisher.
func (p *StreamPublisher) PublishOrderCreated(ctx context.Context, evt OrderCreatedEvent) error {
	return p.bus.Publish(ctx, p.streamKey, "order_created", evt)
}
