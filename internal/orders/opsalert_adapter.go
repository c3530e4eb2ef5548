package orders

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/realtime"
)

// SlackOpsAlerter adapts realtime.OpsNotifier to the pipeline's
// OpsAlerter port.
type SlackOpsAlerter struct {
	notifier *realtime.OpsNotifier
}

// NewSlackOpsAlerter creates a SlackOpsAlerter.
func NewSlackOpsAlerter(notifier *realtime.OpsNotifier) *SlackOpsAlerter {
	return &SlackOpsAlerter{notifier: notifier}
}

// AlertPartialReservationLeak implements OpsAlerter.
func (a *SlackOpsAlerter) AlertPartialReservationLeak(ctx context.Context, orderID, inventoryID uuid.UUID, quantity int, cause error) {
	orderLabel := "none"
	if orderID != uuid.Nil {
		orderLabel = orderID.String()
	}
	a.notifier.Post(ctx, realtime.OpsAlert{
		Kind:        realtime.PartialReservationLeak,
		Title:       "Inventory reservation leaked",
		Description: "Releasing a reservation failed during order compensation; inventory is held with no corresponding order.",
		OrderID:     orderLabel,
		Details: map[string]string{
			"inventory_id": inventoryID.String(),
			"quantity":     strconv.Itoa(quantity),
			"cause":        cause.Error(),
		},
	})
}
