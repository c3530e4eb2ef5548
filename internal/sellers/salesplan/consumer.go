package salesplan

import (
	"context"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/eventbus"
)

// Consume runs the projector against opts until ctx is cancelled,
// delegating the poll/ack/redeliver loop to the shared event bus.
func Consume(ctx context.Context, bus *eventbus.Bus, opts eventbus.ConsumeOptions, p *Projector) error {
	return bus.Run(ctx, opts, p.Handle)
}
