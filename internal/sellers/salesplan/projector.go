package salesplan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/eventbus"
)

// Projector consumes order_created events and credits the matching
// seller's current-quarter sales plan, exactly once per event_id.
type Projector struct {
	store      Store
	ledger     Ledger
	opsAlerter OpsAlerter
}

// NewProjector creates a Projector.
func NewProjector(store Store, ledger Ledger, opsAlerter OpsAlerter) *Projector {
	return &Projector{store: store, ledger: ledger, opsAlerter: opsAlerter}
}

// Handle implements eventbus.Handler. It runs the idempotency check,
// the skip-if-no-seller rule, and the accumulator credit inside a
// single transaction, so either both the credit and the processed
// marker land or neither does.
func (p *Projector) Handle(ctx context.Context, evt eventbus.Event) error {
	var order OrderCreatedEvent
	if err := json.Unmarshal(evt.Payload, &order); err != nil {
		return eventbus.ErrDrop
	}

	return p.store.WithTx(ctx, func(tx pgx.Tx) error {
		processed, err := p.ledger.HasBeenProcessed(ctx, tx, evt.EventID)
		if err != nil {
			return err
		}
		if processed {
			return nil
		}

		if order.SellerID == nil {
			return p.ledger.MarkAsProcessed(ctx, tx, evt.EventID, evt.EventType)
		}

		amount, err := decimal.NewFromString(order.TotalAmount)
		if err != nil {
			return eventbus.ErrDrop
		}

		period := currentQuarter(time.Now().UTC())

		if err := p.store.CreditPlan(ctx, tx, *order.SellerID, period, amount); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				p.opsAlerter.AlertMissingPlan(ctx, *order.SellerID, period, order.OrderID)
				return fmt.Errorf("no sales plan for seller %s period %s: %w", *order.SellerID, period, err)
			}
			return err
		}

		return p.ledger.MarkAsProcessed(ctx, tx, evt.EventID, evt.EventType)
	})
}

// currentQuarter formats t as "Q{1-4}-{year}" in UTC.
func currentQuarter(t time.Time) string {
	quarter := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("Q%d-%d", quarter, t.Year())
}
