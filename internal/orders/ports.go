package orders

import (
	"context"

	"github.com/google/uuid"
)

// CustomerService fetches denormalized customer data.
type CustomerService interface {
	GetCustomer(ctx context.Context, customerID uuid.UUID) (CustomerData, error)
}

// InventoryService fetches inventory snapshots and performs the
// reserve/release calls the pipeline needs. Reserve and Release are
// symmetric: calling Release with the same inventoryID/quantity used in
// a prior successful Reserve must always undo it, since the pipeline
// relies on that symmetry to compensate partial failures.
type InventoryService interface {
	GetInventory(ctx context.Context, inventoryID uuid.UUID) (InventoryInfo, error)
	Reserve(ctx context.Context, inventoryID uuid.UUID, quantity int) error
	Release(ctx context.Context, inventoryID uuid.UUID, quantity int) error
}

// Store persists and queries the Order aggregate.
type Store interface {
	CreateOrder(ctx context.Context, order *Order) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]Order, int, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]Order, int, error)
}

// EventPublisher publishes order_created after a successful commit.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, evt OrderCreatedEvent) error
}

// OpsAlerter reports a partial reservation leak: a release call failed
// during compensation, leaving inventory reserved with no corresponding
// order — an operator-actionable condition the pipeline cannot resolve
// on its own.
type OpsAlerter interface {
	AlertPartialReservationLeak(ctx context.Context, orderID uuid.UUID, inventoryID uuid.UUID, quantity int, cause error)
}
