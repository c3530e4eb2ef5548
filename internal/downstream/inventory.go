package downstream

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/orders"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/serviceclient"
)

// InventoryClient implements orders.InventoryService over the inventory service's HTTP API.
type InventoryClient struct {
	client *serviceclient.Client
}

// NewInventoryClient creates an InventoryClient.
func NewInventoryClient(client *serviceclient.Client) *InventoryClient {
	return &InventoryClient{client: client}
}

type inventoryResponse struct {
	ID                uuid.UUID       `json:"id"`
	WarehouseID       uuid.UUID       `json:"warehouse_id"`
	AvailableQuantity int             `json:"available_quantity"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	ProductSKU        string          `json:"product_sku"`
	ProductPrice      decimal.Decimal `json:"product_price"`
	WarehouseName     string          `json:"warehouse_name"`
	WarehouseCity     string          `json:"warehouse_city"`
	WarehouseCountry  string          `json:"warehouse_country"`
	BatchNumber       string          `json:"batch_number"`
	ExpirationDate    time.Time       `json:"expiration_date"`
}

// GetInventory implements orders.InventoryService.
func (c *InventoryClient) GetInventory(ctx context.Context, inventoryID uuid.UUID) (orders.InventoryInfo, error) {
	var resp inventoryResponse
	if err := c.client.Get(ctx, fmt.Sprintf("/inventories/%s", inventoryID), &resp); err != nil {
		return orders.InventoryInfo{}, err
	}
	return orders.InventoryInfo{
		ID:                resp.ID,
		WarehouseID:       resp.WarehouseID,
		AvailableQuantity: resp.AvailableQuantity,
		ProductID:         resp.ProductID,
		ProductName:       resp.ProductName,
		ProductSKU:        resp.ProductSKU,
		ProductBasePrice:  resp.ProductPrice,
		WarehouseName:     resp.WarehouseName,
		WarehouseCity:     resp.WarehouseCity,
		WarehouseCountry:  resp.WarehouseCountry,
		BatchNumber:       resp.BatchNumber,
		ExpirationDate:    resp.ExpirationDate,
	}, nil
}

type reservationRequest struct {
	Quantity int `json:"quantity"`
}

// Reserve implements orders.InventoryService.
func (c *InventoryClient) Reserve(ctx context.Context, inventoryID uuid.UUID, quantity int) error {
	return c.client.Patch(ctx, fmt.Sprintf("/inventories/%s/reserve", inventoryID), reservationRequest{Quantity: quantity}, nil)
}

// Release implements orders.InventoryService.
func (c *InventoryClient) Release(ctx context.Context, inventoryID uuid.UUID, quantity int) error {
	return c.client.Patch(ctx, fmt.Sprintf("/inventories/%s/release", inventoryID), reservationRequest{Quantity: quantity}, nil)
}
