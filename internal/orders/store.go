package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists the Order aggregate and its line items in a
// single transaction — the whole aggregate commits or none of it does.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// CreateOrder inserts the order row and every item row in one transaction.
func (s *PostgresStore) CreateOrder(ctx context.Context, order *Order) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning order transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const orderQuery = `
		INSERT INTO orders (
			id, customer_id, placed_at, creation_method, seller_id, visit_id,
			route_id, estimated_delivery_date, delivery_address, delivery_city,
			delivery_country, customer_name, customer_phone, customer_email,
			seller_name, seller_email, total_amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	if _, err := tx.Exec(ctx, orderQuery,
		order.ID, order.CustomerID, order.PlacedAt, order.CreationMethod, order.SellerID, order.VisitID,
		order.RouteID, order.EstimatedDeliveryDate, order.DeliveryAddress, order.DeliveryCity,
		order.DeliveryCountry, order.CustomerName, order.CustomerPhone, order.CustomerEmail,
		order.SellerName, order.SellerEmail, order.TotalAmount,
	); err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	const itemQuery = `
		INSERT INTO order_items (
			id, order_id, product_id, inventory_id, quantity, unit_price, total_price,
			product_name, product_sku, warehouse_id, warehouse_name, warehouse_city,
			warehouse_country, batch_number, expiration_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	for _, item := range order.Items {
		if _, err := tx.Exec(ctx, itemQuery,
			item.ID, item.OrderID, item.ProductID, item.InventoryID, item.Quantity, item.UnitPrice, item.TotalPrice,
			item.ProductName, item.ProductSKU, item.WarehouseID, item.WarehouseName, item.WarehouseCity,
			item.WarehouseCountry, item.BatchNumber, item.ExpirationDate,
		); err != nil {
			return fmt.Errorf("inserting order item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order transaction: %w", err)
	}
	return nil
}

const orderColumns = `id, customer_id, placed_at, creation_method, seller_id, visit_id,
	route_id, estimated_delivery_date, delivery_address, delivery_city,
	delivery_country, customer_name, customer_phone, customer_email,
	seller_name, seller_email, total_amount`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	if err := row.Scan(
		&o.ID, &o.CustomerID, &o.PlacedAt, &o.CreationMethod, &o.SellerID, &o.VisitID,
		&o.RouteID, &o.EstimatedDeliveryDate, &o.DeliveryAddress, &o.DeliveryCity,
		&o.DeliveryCountry, &o.CustomerName, &o.CustomerPhone, &o.CustomerEmail,
		&o.SellerName, &o.SellerEmail, &o.TotalAmount,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListByCustomer returns a page of orders placed by customerID, most
// recent first, along with the total matching count for pagination.
func (s *PostgresStore) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]Order, int, error) {
	return s.listBy(ctx, "customer_id", customerID, limit, offset)
}

// ListBySeller returns a page of orders placed through sellerID, most
// recent first, along with the total matching count for pagination.
func (s *PostgresStore) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]Order, int, error) {
	return s.listBy(ctx, "seller_id", sellerID, limit, offset)
}

func (s *PostgresStore) listBy(ctx context.Context, column string, id uuid.UUID, limit, offset int) ([]Order, int, error) {
	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM orders WHERE %s = $1`, column)
	if err := s.pool.QueryRow(ctx, countQuery, id).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM orders WHERE %s = $1 ORDER BY placed_at DESC LIMIT $2 OFFSET $3`, orderColumns, column)
	rows, err := s.pool.Query(ctx, query, id, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *o)
	}
	return out, total, rows.Err()
}
