package orders

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/money"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/telemetry"
)

// Pipeline wires the collaborators the order creation flow needs. It
// holds no mutable state itself — everything it touches is a
// constructor-injected interface, per the explicit-constructor-injection
// pattern the redesign calls for in place of a decorator-based container.
type Pipeline struct {
	customers  CustomerService
	inventory  InventoryService
	store      Store
	events     EventPublisher
	opsAlerter OpsAlerter
	logger     *slog.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(customers CustomerService, inventory InventoryService, store Store, events EventPublisher, opsAlerter OpsAlerter, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		customers:  customers,
		inventory:  inventory,
		store:      store,
		events:     events,
		opsAlerter: opsAlerter,
		logger:     logger,
	}
}

// Create runs the full order pipeline: fetch customer, fetch inventory
// for every line concurrently, price each line, reserve inventory
// sequentially (compensating any already-succeeded reservation if a
// later one fails), persist the order, then publish order_created.
func (p *Pipeline) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if err := validateCreationMethod(req); err != nil {
		return nil, err
	}

	customer, err := p.customers.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		if errs.KindOf(err) == errs.NotFound {
			return nil, errs.New(errs.NotFound, "customer not found").WithCode("CustomerNotFound")
		}
		return nil, err
	}

	infos, err := p.fetchInventory(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	items, err := p.priceItems(req.Items, infos)
	if err != nil {
		return nil, err
	}

	if err := p.reserveSequentially(ctx, items); err != nil {
		return nil, err
	}

	order := p.buildOrder(req, customer, items)

	if err := p.store.CreateOrder(ctx, order); err != nil {
		// The order never made it to disk; release every reservation we
		// just took. A failure here is the operator-actionable leak case.
		p.releaseAll(context.WithoutCancel(ctx), order.ID, items)
		return nil, errs.Wrap(err, "persisting order")
	}

	p.publish(context.WithoutCancel(ctx), order)

	telemetry.OrdersCreatedTotal.Inc()

	return order, nil
}

// ListByCustomer returns a page of orders placed by customerID.
func (p *Pipeline) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]Order, int, error) {
	return p.store.ListByCustomer(ctx, customerID, limit, offset)
}

// ListBySeller returns a page of orders placed through sellerID.
func (p *Pipeline) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]Order, int, error) {
	return p.store.ListBySeller(ctx, sellerID, limit, offset)
}

// publish fires order_created after the commit. This is at-least-once,
// fire-and-forget: no outbox backs it, so a crash between commit and
// publish silently drops the event and any sales-plan credit it would
// have triggered. Accepted tradeoff — see the order pipeline's design notes.
func (p *Pipeline) publish(ctx context.Context, order *Order) {
	evt := OrderCreatedEvent{
		OrderID:         order.ID,
		CustomerID:      order.CustomerID,
		SellerID:        order.SellerID,
		PlacedAt:        order.PlacedAt,
		TotalAmount:     order.TotalAmount.StringFixed(2),
		DeliveryAddress: order.DeliveryAddress,
		DeliveryCity:    order.DeliveryCity,
		DeliveryCountry: order.DeliveryCountry,
	}
	if err := p.events.PublishOrderCreated(ctx, evt); err != nil {
		p.logger.Warn("order_created publish failed", "error", err, "order_id", order.ID)
	}
}

// fetchInventory fans out one GetInventory call per requested line
// concurrently — each line is independent, so there is nothing to
// synchronize beyond waiting for all of them. This only records the
// snapshot each line prices against; availability is enforced later, at
// the reservation call, which is the only place that can observe a
// concurrent depletion.
func (p *Pipeline) fetchInventory(ctx context.Context, reqItems []RequestedItem) ([]InventoryInfo, error) {
	infos := make([]InventoryInfo, len(reqItems))

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range reqItems {
		i, item := i, item
		g.Go(func() error {
			info, err := p.inventory.GetInventory(gctx, item.InventoryID)
			if err != nil {
				if errs.KindOf(err) == errs.NotFound {
					return errs.New(errs.NotFound, "inventory not found").WithCode("InventoryNotFound")
				}
				return err
			}
			infos[i] = info
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return infos, nil
}

// priceItems computes unit_price = base_price * 1.30 (rounded) and
// total_price = quantity * unit_price for every line.
func (p *Pipeline) priceItems(reqItems []RequestedItem, infos []InventoryInfo) ([]OrderItem, error) {
	items := make([]OrderItem, len(reqItems))
	for i, req := range reqItems {
		info := infos[i]
		unitPrice := money.UnitPrice(info.ProductBasePrice)
		items[i] = OrderItem{
			ID:               uuid.New(),
			ProductID:        info.ProductID,
			InventoryID:      req.InventoryID,
			Quantity:         req.Quantity,
			UnitPrice:        unitPrice,
			TotalPrice:       money.LineTotal(req.Quantity, unitPrice),
			ProductName:      info.ProductName,
			ProductSKU:       info.ProductSKU,
			WarehouseID:      info.WarehouseID,
			WarehouseName:    info.WarehouseName,
			WarehouseCity:    info.WarehouseCity,
			WarehouseCountry: info.WarehouseCountry,
			BatchNumber:      info.BatchNumber,
			ExpirationDate:   info.ExpirationDate,
		}
	}
	return items, nil
}

// reserveSequentially reserves each line's inventory in request order.
// On a failure partway through, it releases every line that already
// succeeded, in the same order they were reserved — a deterministic
// compensation order so the operator alert on a release failure always
// names a reproducible sequence.
func (p *Pipeline) reserveSequentially(ctx context.Context, items []OrderItem) error {
	reserved := make([]OrderItem, 0, len(items))

	for _, item := range items {
		if err := p.inventory.Reserve(ctx, item.InventoryID, item.Quantity); err != nil {
			p.releaseAll(context.WithoutCancel(ctx), uuid.Nil, reserved)
			if errs.KindOf(err) == errs.Conflict {
				return errs.New(errs.Conflict, "insufficient inventory for requested quantity").WithCode("InsufficientInventory")
			}
			return err
		}
		reserved = append(reserved, item)
	}

	return nil
}

// releaseAll compensates a set of already-successful reservations.
// It runs with a context that survives the caller's cancellation
// (non-cancellable compensation scope) because an in-flight release
// must finish even if the request that triggered it has already failed.
func (p *Pipeline) releaseAll(ctx context.Context, orderID uuid.UUID, items []OrderItem) {
	for _, item := range items {
		if err := p.inventory.Release(ctx, item.InventoryID, item.Quantity); err != nil {
			p.opsAlerter.AlertPartialReservationLeak(ctx, orderID, item.InventoryID, item.Quantity, err)
		}
	}
}

func (p *Pipeline) buildOrder(req CreateOrderRequest, customer CustomerData, items []OrderItem) *Order {
	orderID := uuid.New()
	for i := range items {
		items[i].OrderID = orderID
	}

	lineTotals := make([]decimal.Decimal, len(items))
	for i, it := range items {
		lineTotals[i] = it.TotalPrice
	}

	return &Order{
		ID:              orderID,
		CustomerID:      customer.ID,
		PlacedAt:        time.Now().UTC(),
		CreationMethod:  req.CreationMethod,
		SellerID:        req.SellerID,
		VisitID:         req.VisitID,
		DeliveryAddress: customer.Address,
		DeliveryCity:    customer.City,
		DeliveryCountry: customer.Country,
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		CustomerEmail:   customer.Email,
		Items:           items,
		TotalAmount:     money.Sum(lineTotals...),
	}
}
