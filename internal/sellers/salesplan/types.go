// Package salesplan implements the sales-plan projector (C4): an
// idempotent consumer of order_created events that atomically credits
// the seller's current-quarter sales plan accumulator.
package salesplan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderCreatedEvent is the subset of the order_created payload the
// projector needs. TotalAmount arrives as a decimal string, matching
// how internal/orders.OrderCreatedEvent serializes it.
type OrderCreatedEvent struct {
	OrderID     uuid.UUID  `json:"order_id"`
	CustomerID  uuid.UUID  `json:"customer_id"`
	SellerID    *uuid.UUID `json:"seller_id,omitempty"`
	TotalAmount string     `json:"total_amount"`
}

// Status is the plan's lifecycle: ACTIVE plans accept credits, CLOSED
// ones are retained for history only.
type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusClosed Status = "CLOSED"
)

// GoalType distinguishes what the goal column measures.
type GoalType string

const (
	GoalTypeSales  GoalType = "sales"
	GoalTypeVisits GoalType = "visits"
)

// SalesPlan is the persisted aggregate a seller's progress is tracked
// against. One (seller_id, sales_period) pair has at most one plan.
type SalesPlan struct {
	ID          uuid.UUID       `json:"id"`
	SellerID    uuid.UUID       `json:"seller_id"`
	SalesPeriod string          `json:"sales_period"`
	GoalType    GoalType        `json:"goal_type"`
	Goal        decimal.Decimal `json:"goal"`
	Accumulate  decimal.Decimal `json:"accumulate"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreatePlanRequest is the input to creating a new sales plan.
type CreatePlanRequest struct {
	SellerID    uuid.UUID
	SalesPeriod string
	GoalType    GoalType
	Goal        decimal.Decimal
}
