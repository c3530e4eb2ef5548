package webapp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/downstream"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSalesPlanService struct {
	createdSeller uuid.UUID
	listedFor     uuid.UUID
	page          httpserver.Page[downstream.SalesPlanSummary]
}

func (f *fakeSalesPlanService) CreateSalesPlan(ctx context.Context, sellerID uuid.UUID, period, goalType string, goal decimal.Decimal) (*downstream.SalesPlanSummary, error) {
	f.createdSeller = sellerID
	return &downstream.SalesPlanSummary{ID: uuid.New(), SellerID: sellerID, SalesPeriod: period, GoalType: goalType, Goal: goal}, nil
}

func (f *fakeSalesPlanService) ListSalesPlans(ctx context.Context, sellerID uuid.UUID, limit, offset int) (httpserver.Page[downstream.SalesPlanSummary], error) {
	f.listedFor = sellerID
	return f.page, nil
}

func TestSalesPlansHandler_Create_RequiresPrincipal(t *testing.T) {
	h := NewSalesPlansHandler(discardLogger(), &fakeSalesPlanService{})

	payload, _ := json.Marshal(createSalesPlanRequestBody{SellerID: uuid.New(), SalesPeriod: "2026-08", GoalType: "sales", Goal: decimal.NewFromInt(1000)})
	req := httptest.NewRequest(http.MethodPost, "/sales-plans", bytes.NewReader(payload))
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestSalesPlansHandler_Create_RejectsNonWebGroup(t *testing.T) {
	h := NewSalesPlansHandler(discardLogger(), &fakeSalesPlanService{})

	payload, _ := json.Marshal(createSalesPlanRequestBody{SellerID: uuid.New(), SalesPeriod: "2026-08", GoalType: "sales", Goal: decimal.NewFromInt(1000)})
	req := httptest.NewRequest(http.MethodPost, "/sales-plans", bytes.NewReader(payload))
	req.Header.Set("X-Principal-Subject", "sub-1")
	req.Header.Set("X-Principal-Groups", "seller_users")
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestSalesPlansHandler_Create_Success(t *testing.T) {
	sellerID := uuid.New()
	svc := &fakeSalesPlanService{}
	h := NewSalesPlansHandler(discardLogger(), svc)

	payload, _ := json.Marshal(createSalesPlanRequestBody{SellerID: sellerID, SalesPeriod: "2026-08", GoalType: "sales", Goal: decimal.NewFromInt(1000)})
	req := httptest.NewRequest(http.MethodPost, "/sales-plans", bytes.NewReader(payload))
	req.Header.Set("X-Principal-Subject", "sub-1")
	req.Header.Set("X-Principal-Groups", "web_users")
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if svc.createdSeller != sellerID {
		t.Fatalf("expected plan created for seller %s, got %s", sellerID, svc.createdSeller)
	}
}

func TestSalesPlansHandler_List_RequiresSellerID(t *testing.T) {
	h := NewSalesPlansHandler(discardLogger(), &fakeSalesPlanService{})

	req := httptest.NewRequest(http.MethodGet, "/sales-plans", nil)
	req.Header.Set("X-Principal-Subject", "sub-1")
	req.Header.Set("X-Principal-Groups", "web_users")
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSalesPlansHandler_List_Success(t *testing.T) {
	sellerID := uuid.New()
	svc := &fakeSalesPlanService{page: httpserver.Page[downstream.SalesPlanSummary]{
		Items: []downstream.SalesPlanSummary{{ID: uuid.New(), SellerID: sellerID}},
		Total: 1, Page: 1, Size: 25,
	}}
	h := NewSalesPlansHandler(discardLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/sales-plans?seller_id="+sellerID.String(), nil)
	req.Header.Set("X-Principal-Subject", "sub-1")
	req.Header.Set("X-Principal-Groups", "web_users")
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.listedFor != sellerID {
		t.Fatalf("expected list scoped to %s, got %s", sellerID, svc.listedFor)
	}
}
