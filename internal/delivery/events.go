package delivery

import (
	"context"
	"time"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/eventbus"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/realtime"
)

// routesGeneratedEvent is the void event payload: consumers refetch
// rather than trust any embedded state.
type routesGeneratedEvent struct {
	Microservice string `json:"microservice"`
}

// StreamPublisher implements EventPublisher over the shared event bus.
type StreamPublisher struct {
	bus       *eventbus.Bus
	streamKey string
}

// NewStreamPublisher creates a StreamPublisher.
func NewStreamPublisher(bus *eventbus.Bus, streamKey string) *StreamPublisher {
	return &StreamPublisher{bus: bus, streamKey: streamKey}
}

// PublishRoutesGenerated implements EventPublisher.
func (p *StreamPublisher) PublishRoutesGenerated(ctx context.Context) error {
	return p.bus.Publish(ctx, p.streamKey, "delivery_routes_generated", routesGeneratedEvent{Microservice: "delivery"})
}

// NotifierBroadcaster implements RealtimeBroadcaster over realtime.Notifier,
// pushing to an operations-facing channel so dashboards can refetch
// routes for the day without polling.
type NotifierBroadcaster struct {
	notifier *realtime.Notifier
	channel  string
}

// NewNotifierBroadcaster creates a NotifierBroadcaster. channel is the
// fully-namespaced Redis Pub/Sub channel operator dashboards subscribe to.
func NewNotifierBroadcaster(notifier *realtime.Notifier, channel string) *NotifierBroadcaster {
	return &NotifierBroadcaster{notifier: notifier, channel: channel}
}

type routesGeneratedNotification struct {
	RouteDate  string `json:"route_date"`
	RouteCount int    `json:"route_count"`
}

// BroadcastRoutesGenerated implements RealtimeBroadcaster. Like the
// notifier contract generally, a publish failure is swallowed: a missed
// dashboard refresh is not worth failing the scheduler run over.
func (b *NotifierBroadcaster) BroadcastRoutesGenerated(ctx context.Context, routeDate time.Time, routeCount int) {
	_ = b.notifier.Publish(ctx, b.channel, routesGeneratedNotification{
		RouteDate:  routeDate.Format("2006-01-02"),
		RouteCount: routeCount,
	})
}
