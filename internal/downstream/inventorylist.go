package downstream

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/serviceclient"
)

// InventoryListClient calls the inventory service's search endpoint.
// It is distinct from InventoryClient (which implements
// orders.InventoryService's single-item get/reserve/release) because
// the web app's listing use case is a different shape entirely —
// filtered, paginated search rather than an id lookup.
type InventoryListClient struct {
	client *serviceclient.Client
}

// NewInventoryListClient creates an InventoryListClient.
func NewInventoryListClient(client *serviceclient.Client) *InventoryListClient {
	return &InventoryListClient{client: client}
}

// InventoryListItem is one row of an inventory search result.
type InventoryListItem struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	ProductSKU        string          `json:"product_sku"`
	ProductCategory   string          `json:"product_category"`
	AvailableQuantity int             `json:"available_quantity"`
	ProductPrice      decimal.Decimal `json:"product_price"`
}

// InventoryFilter holds the mutually exclusive search filters; at most
// one field may be non-empty — the caller enforces that before calling.
type InventoryFilter struct {
	Name     string
	SKU      string
	Category string
}

// List implements webapp.InventoryService.
func (c *InventoryListClient) List(ctx context.Context, filter InventoryFilter, limit, offset int) (httpserver.Page[InventoryListItem], error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))
	switch {
	case filter.Name != "":
		q.Set("name", filter.Name)
	case filter.SKU != "":
		q.Set("sku", filter.SKU)
	case filter.Category != "":
		q.Set("category", filter.Category)
	}

	var resp httpserver.Page[InventoryListItem]
	if err := c.client.Get(ctx, "/inventories?"+q.Encode(), &resp); err != nil {
		return httpserver.Page[InventoryListItem]{}, err
	}
	return resp, nil
}
