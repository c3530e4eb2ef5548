package visit

import (
	"context"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/eventbus"
)

// StreamPublisher publishes visit_created onto a Redis stream via the
// shared event bus.
type StreamPublisher struct {
	bus       *eventbus.Bus
	streamKey string
}

// NewStreamPublisher creates a StreamPublisher targeting streamKey.
func NewStreamPublisher(bus *eventbus.Bus, streamKey string) *StreamPublisher {
	return &StreamPublisher{bus: bus, streamKey: streamKey}
}

type visitCreatedEvent struct {
	VisitID     string `json:"visit_id"`
	SellerID    string `json:"seller_id"`
	ClientID    string `json:"client_id"`
	ScheduledAt string `json:"scheduled_at"`
}

// PublishVisitCreated implements EventPublisher.
func (p *StreamPublisher) PublishVisitCreated(ctx context.Context, v *Visit) error {
	evt := visitCreatedEvent{
		VisitID:     v.ID.String(),
		SellerID:    v.SellerID.String(),
		ClientID:    v.ClientID.String(),
		ScheduledAt: v.ScheduledAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	return p.bus.Publish(ctx, p.streamKey, "visit_created", evt)
}
