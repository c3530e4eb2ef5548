package downstream

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/serviceclient"
)

// OrdersServiceClient calls the orders role's own HTTP API (not the
// external order microservice named in the original system — the
// in-repo orders role hosts C5, and the BFF reaches it the same way it
// reaches any other C1 target). Implements clientapp.OrderService and
// sellersapp.OrderService.
type OrdersServiceClient struct {
	client *serviceclient.Client
}

// NewOrdersServiceClient creates an OrdersServiceClient.
func NewOrdersServiceClient(client *serviceclient.Client) *OrdersServiceClient {
	return &OrdersServiceClient{client: client}
}

// OrderItemInput is one requested line of a CreateOrder call.
type OrderItemInput struct {
	InventoryID uuid.UUID `json:"inventory_id"`
	Quantity    int       `json:"quantity"`
}

type createOrderBody struct {
	CustomerID     uuid.UUID        `json:"customer_id"`
	CreationMethod string           `json:"creation_method"`
	SellerID       *uuid.UUID       `json:"seller_id,omitempty"`
	VisitID        *uuid.UUID       `json:"visit_id,omitempty"`
	Items          []OrderItemInput `json:"items"`
}

// OrderSummary is the order shape the BFF hands back to its own callers.
type OrderSummary struct {
	ID              uuid.UUID       `json:"id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	PlacedAt        string          `json:"placed_at"`
	CreationMethod  string          `json:"creation_method"`
	SellerID        *uuid.UUID      `json:"seller_id,omitempty"`
	VisitID         *uuid.UUID      `json:"visit_id,omitempty"`
	DeliveryAddress string          `json:"delivery_address"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// CreateOrder creates an order via app_cliente (no seller_id/visit_id).
func (c *OrdersServiceClient) CreateOrder(ctx context.Context, customerID uuid.UUID, items []OrderItemInput) (*OrderSummary, error) {
	var resp OrderSummary
	body := createOrderBody{
		CustomerID:     customerID,
		CreationMethod: "app_cliente",
		Items:          items,
	}
	if err := c.client.Post(ctx, "/api/v1/orders", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateOrderForSeller creates an order via app_vendedor, optionally
// tied to a visit.
func (c *OrdersServiceClient) CreateOrderForSeller(ctx context.Context, customerID, sellerID uuid.UUID, visitID *uuid.UUID, items []OrderItemInput) (*OrderSummary, error) {
	var resp OrderSummary
	body := createOrderBody{
		CustomerID:     customerID,
		CreationMethod: "app_vendedor",
		SellerID:       &sellerID,
		VisitID:        visitID,
		Items:          items,
	}
	if err := c.client.Post(ctx, "/api/v1/orders", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListByCustomer implements clientapp.OrderService.
func (c *OrdersServiceClient) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) (httpserver.Page[OrderSummary], error) {
	var resp httpserver.Page[OrderSummary]
	path := fmt.Sprintf("/api/v1/orders?customer_id=%s&limit=%d&offset=%d", customerID, limit, offset)
	if err := c.client.Get(ctx, path, &resp); err != nil {
		return httpserver.Page[OrderSummary]{}, err
	}
	return resp, nil
}

// ListBySeller implements sellersapp.OrderService.
func (c *OrdersServiceClient) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) (httpserver.Page[OrderSummary], error) {
	var resp httpserver.Page[OrderSummary]
	path := fmt.Sprintf("/api/v1/orders?seller_id=%s&limit=%d&offset=%d", sellerID, limit, offset)
	if err := c.client.Get(ctx, path, &resp); err != nil {
		return httpserver.Page[OrderSummary]{}, err
	}
	return resp, nil
}
