// Package orders implements the order pipeline (C5): validating a cart
// against inventory and customer data, reserving stock item by item
// with symmetric compensation on partial failure, persisting the order
// atomically, and publishing order_created afterward.
package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreationMethod mirrors the original's metodo_creacion enum: how an
// order came to exist, which drives which identity fields are required.
type CreationMethod string

const (
	CreationVisitaVendedor CreationMethod = "visita_vendedor"
	CreationAppCliente     CreationMethod = "app_cliente"
	CreationAppVendedor    CreationMethod = "app_vendedor"
)

// CreateOrderRequest is the pipeline's input: a customer, a creation
// method with its required identity fields, and the requested line items.
type CreateOrderRequest struct {
	CustomerID     uuid.UUID
	CreationMethod CreationMethod
	SellerID       *uuid.UUID
	VisitID        *uuid.UUID
	Items          []RequestedItem
}

// RequestedItem is one line of the cart: an inventory batch and a quantity.
type RequestedItem struct {
	InventoryID uuid.UUID
	Quantity    int
}

// Order is the persisted aggregate.
type Order struct {
	ID                    uuid.UUID
	CustomerID            uuid.UUID
	PlacedAt              time.Time
	CreationMethod        CreationMethod
	SellerID              *uuid.UUID
	VisitID               *uuid.UUID
	RouteID               *uuid.UUID
	EstimatedDeliveryDate *time.Time
	DeliveryAddress       string
	DeliveryCity          string
	DeliveryCountry       string
	CustomerName          string
	CustomerPhone         *string
	CustomerEmail         *string
	SellerName            *string
	SellerEmail           *string
	TotalAmount           decimal.Decimal
	Items                 []OrderItem
}

// OrderItem is one allocation from inventory, denormalized at creation
// time so historical orders never drift if the catalog or warehouse
// record later changes.
type OrderItem struct {
	ID               uuid.UUID
	OrderID          uuid.UUID
	ProductID        uuid.UUID
	InventoryID      uuid.UUID
	Quantity         int
	UnitPrice        decimal.Decimal
	TotalPrice       decimal.Decimal
	ProductName      string
	ProductSKU       string
	WarehouseID      uuid.UUID
	WarehouseName    string
	WarehouseCity    string
	WarehouseCountry string
	BatchNumber      string
	ExpirationDate   time.Time
}

// CustomerData is the denormalized customer snapshot fetched from the
// customer service at order time.
type CustomerData struct {
	ID      uuid.UUID
	Name    string
	Phone   *string
	Email   *string
	Address string
	City    string
	Country string
}

// InventoryInfo is the denormalized inventory/product/warehouse snapshot
// fetched from the inventory service at order time.
type InventoryInfo struct {
	ID                uuid.UUID
	WarehouseID       uuid.UUID
	AvailableQuantity int
	ProductID         uuid.UUID
	ProductName       string
	ProductSKU        string
	ProductBasePrice  decimal.Decimal
	WarehouseName     string
	WarehouseCity     string
	WarehouseCountry  string
	BatchNumber       string
	ExpirationDate    time.Time
}

// OrderCreatedEvent is the payload published after a successful commit.
type OrderCreatedEvent struct {
	OrderID         uuid.UUID  `json:"order_id"`
	CustomerID      uuid.UUID  `json:"customer_id"`
	SellerID        *uuid.UUID `json:"seller_id,omitempty"`
	PlacedAt        time.Time  `json:"placed_at"`
	TotalAmount     string     `json:"total_amount"`
	DeliveryAddress string     `json:"delivery_address"`
	DeliveryCity    string     `json:"delivery_city"`
	DeliveryCountry string     `json:"delivery_country"`
}
