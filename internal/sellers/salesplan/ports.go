package salesplan

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/idempotency"
)

// Store applies the accumulator credit. CreditPlan must run inside tx
// and report pgx.ErrNoRows when no matching plan exists,
// so the caller can roll the transaction back without marking the event
// processed.
type Store interface {
	// WithTx runs fn inside a transaction and commits on success, rolling
	// back on any returned error.
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
	CreditPlan(ctx context.Context, tx pgx.Tx, sellerID uuid.UUID, period string, amount decimal.Decimal) error
	CreatePlan(ctx context.Context, p *SalesPlan) error
	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]SalesPlan, int, error)
	// GetBySellerAndPeriod returns the one plan matching (sellerID, period),
	// or pgx.ErrNoRows if none exists.
	GetBySellerAndPeriod(ctx context.Context, sellerID uuid.UUID, period string) (*SalesPlan, error)
}

// Ledger is the idempotency port the projector depends on, satisfied by
// *idempotency.Ledger.
type Ledger interface {
	HasBeenProcessed(ctx context.Context, dbtx idempotency.DBTX, eventID uuid.UUID) (bool, error)
	MarkAsProcessed(ctx context.Context, dbtx idempotency.DBTX, eventID uuid.UUID, eventType string) error
}

// OpsAlerter reports a MissingPlan condition: a credit was attempted
// against a (seller, quarter) with no plan row, an operator-actionable
// data-setup gap.
type OpsAlerter interface {
	AlertMissingPlan(ctx context.Context, sellerID uuid.UUID, period string, orderID uuid.UUID)
}
