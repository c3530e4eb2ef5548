package salesplan

import (
	"context"

	"github.com/google/uuid"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/realtime"
)

// SlackOpsAlerter adapts realtime.OpsNotifier to the projector's
// OpsAlerter port.
type SlackOpsAlerter struct {
	notifier *realtime.OpsNotifier
}

// NewSlackOpsAlerter creates a SlackOpsAlerter.
func NewSlackOpsAlerter(notifier *realtime.OpsNotifier) *SlackOpsAlerter {
	return &SlackOpsAlerter{notifier: notifier}
}

// AlertMissingPlan implements OpsAlerter.
func (a *SlackOpsAlerter) AlertMissingPlan(ctx context.Context, sellerID uuid.UUID, period string, orderID uuid.UUID) {
	a.notifier.Post(ctx, realtime.OpsAlert{
		Kind:        realtime.MissingPlan,
		Title:       "Sales plan missing for seller/quarter",
		Description: "An order_created event could not be credited because no sales plan exists for this seller and period. The event remains unprocessed and will be retried.",
		SellerID:    sellerID.String(),
		Details: map[string]string{
			"period":   period,
			"order_id": orderID.String(),
		},
	})
}
