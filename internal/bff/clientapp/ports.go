// Package clientapp exposes the client-app BFF surface: order creation
// and listing for the mobile client application, scoped to the
// authenticated customer.
package clientapp

import (
	"context"

	"github.com/google/uuid"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/downstream"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
)

// ClientLookup resolves the authenticated principal's external subject
// id to its local customer id.
type ClientLookup interface {
	CustomerIDBySubject(ctx context.Context, subject string) (uuid.UUID, error)
}

// OrderService creates and lists orders on behalf of the authenticated customer.
type OrderService interface {
	CreateOrder(ctx context.Context, customerID uuid.UUID, items []downstream.OrderItemInput) (*downstream.OrderSummary, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) (httpserver.Page[downstream.OrderSummary], error)
}
