// Package webapp exposes the internal web-app BFF surface used by
// back-office staff: creating and browsing sales plans, and searching
// inventory — both scoped to the authenticated web user rather than to
// a single seller or customer.
package webapp

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/downstream"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
)

// SalesPlanService creates and lists sales plans on behalf of the web app.
type SalesPlanService interface {
	CreateSalesPlan(ctx context.Context, sellerID uuid.UUID, period, goalType string, goal decimal.Decimal) (*downstream.SalesPlanSummary, error)
	ListSalesPlans(ctx context.Context, sellerID uuid.UUID, limit, offset int) (httpserver.Page[downstream.SalesPlanSummary], error)
}

// InventoryService searches the catalog's inventory listing.
type InventoryService interface {
	List(ctx context.Context, filter downstream.InventoryFilter, limit, offset int) (httpserver.Page[downstream.InventoryListItem], error)
}
