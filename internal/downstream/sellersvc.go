package downstream

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/serviceclient"
)

// SellersServiceClient calls the sellers role's HTTP API (visits and
// sales plans). Implements sellersapp.VisitService and
// webapp.SalesPlanService.
type SellersServiceClient struct {
	client *serviceclient.Client
}

// NewSellersServiceClient creates a SellersServiceClient.
func NewSellersServiceClient(client *serviceclient.Client) *SellersServiceClient {
	return &SellersServiceClient{client: client}
}

// VisitSummary is the visit shape the BFF hands back to its own callers.
type VisitSummary struct {
	ID              uuid.UUID `json:"id"`
	SellerID        uuid.UUID `json:"seller_id"`
	ClientID        uuid.UUID `json:"client_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	Status          string    `json:"status"`
	Notes           *string   `json:"notes,omitempty"`
	Recommendations *string   `json:"recommendations,omitempty"`
}

type createVisitBody struct {
	SellerID    uuid.UUID `json:"seller_id"`
	ClientID    uuid.UUID `json:"client_id"`
	ScheduledAt time.Time `json:"fecha_visita"`
	Notes       *string   `json:"notas_visita,omitempty"`
}

// CreateVisit implements sellersapp.VisitService.
func (c *SellersServiceClient) CreateVisit(ctx context.Context, sellerID, clientID uuid.UUID, scheduledAt time.Time, notes *string) (*VisitSummary, error) {
	var resp VisitSummary
	body := createVisitBody{SellerID: sellerID, ClientID: clientID, ScheduledAt: scheduledAt, Notes: notes}
	if err := c.client.Post(ctx, "/api/v1/visits", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type updateVisitStatusBody struct {
	Status          string  `json:"status"`
	Recommendations *string `json:"recomendaciones,omitempty"`
}

// UpdateVisitStatus implements sellersapp.VisitService.
func (c *SellersServiceClient) UpdateVisitStatus(ctx context.Context, visitID uuid.UUID, status string, recommendations *string) (*VisitSummary, error) {
	var resp VisitSummary
	body := updateVisitStatusBody{Status: status, Recommendations: recommendations}
	if err := c.client.Patch(ctx, fmt.Sprintf("/api/v1/visits/%s/status", visitID), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SalesPlanSummary is the sales-plan shape the BFF hands back to its
// own callers.
type SalesPlanSummary struct {
	ID          uuid.UUID       `json:"id"`
	SellerID    uuid.UUID       `json:"seller_id"`
	SalesPeriod string          `json:"sales_period"`
	GoalType    string          `json:"goal_type"`
	Goal        decimal.Decimal `json:"goal"`
	Accumulate  decimal.Decimal `json:"accumulate"`
	Status      string          `json:"status"`
}

type createSalesPlanBody struct {
	SellerID    uuid.UUID       `json:"seller_id"`
	SalesPeriod string          `json:"sales_period"`
	GoalType    string          `json:"goal_type"`
	Goal        decimal.Decimal `json:"goal"`
}

// CreateSalesPlan implements webapp.SalesPlanService.
func (c *SellersServiceClient) CreateSalesPlan(ctx context.Context, sellerID uuid.UUID, period, goalType string, goal decimal.Decimal) (*SalesPlanSummary, error) {
	var resp SalesPlanSummary
	body := createSalesPlanBody{SellerID: sellerID, SalesPeriod: period, GoalType: goalType, Goal: goal}
	if err := c.client.Post(ctx, "/api/v1/sales-plans", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListSalesPlans implements webapp.SalesPlanService.
func (c *SellersServiceClient) ListSalesPlans(ctx context.Context, sellerID uuid.UUID, limit, offset int) (httpserver.Page[SalesPlanSummary], error) {
	var resp httpserver.Page[SalesPlanSummary]
	path := fmt.Sprintf("/api/v1/sales-plans?seller_id=%s&limit=%d&offset=%d", sellerID, limit, offset)
	if err := c.client.Get(ctx, path, &resp); err != nil {
		return httpserver.Page[SalesPlanSummary]{}, err
	}
	return resp, nil
}
