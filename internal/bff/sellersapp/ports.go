// Package sellersapp exposes the sellers-app BFF surface: visit
// creation/status updates and the seller's own order listing, scoped
// to the authenticated seller.
package sellersapp

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/downstream"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
)

// SellerLookup resolves the authenticated principal's external subject
// id to its local seller id.
type SellerLookup interface {
	SellerIDBySubject(ctx context.Context, subject string) (uuid.UUID, error)
}

// VisitService creates and updates visits on behalf of the authenticated seller.
type VisitService interface {
	CreateVisit(ctx context.Context, sellerID, clientID uuid.UUID, scheduledAt time.Time, notes *string) (*downstream.VisitSummary, error)
	UpdateVisitStatus(ctx context.Context, visitID uuid.UUID, status string, recommendations *string) (*downstream.VisitSummary, error)
}

// OrderService lists orders placed through the authenticated seller.
type OrderService interface {
	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) (httpserver.Page[downstream.OrderSummary], error)
}
