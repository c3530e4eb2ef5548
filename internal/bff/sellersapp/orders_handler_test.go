package sellersapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/downstream"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
)

type fakeSellerOrderService struct {
	listedFor uuid.UUID
	page      httpserver.Page[downstream.OrderSummary]
}

func (f *fakeSellerOrderService) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) (httpserver.Page[downstream.OrderSummary], error) {
	f.listedFor = sellerID
	return f.page, nil
}

func TestOrdersHandler_List_RequiresPrincipal(t *testing.T) {
	h := NewOrdersHandler(discardLogger(), &fakeSellerLookup{}, &fakeSellerOrderService{})

	req := httptest.NewRequest(http.MethodGet, "/my-orders", nil)
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestOrdersHandler_List_RejectsWrongGroup(t *testing.T) {
	h := NewOrdersHandler(discardLogger(), &fakeSellerLookup{}, &fakeSellerOrderService{})

	req := httptest.NewRequest(http.MethodGet, "/my-orders", nil)
	req.Header.Set("X-Principal-Subject", "sub-1")
	req.Header.Set("X-Principal-Groups", "client_users")
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestOrdersHandler_List_ScopedToResolvedSeller(t *testing.T) {
	sellerID := uuid.New()
	lookup := &fakeSellerLookup{bySubject: map[string]uuid.UUID{"seller-sub": sellerID}}
	orders := &fakeSellerOrderService{page: httpserver.Page[downstream.OrderSummary]{
		Items: []downstream.OrderSummary{{ID: uuid.New(), SellerID: &sellerID}},
		Total: 1, Page: 1, Size: 25,
	}}
	h := NewOrdersHandler(discardLogger(), lookup, orders)

	req := httptest.NewRequest(http.MethodGet, "/my-orders", nil)
	req.Header.Set("X-Principal-Subject", "seller-sub")
	req.Header.Set("X-Principal-Groups", "seller_users")
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if orders.listedFor != sellerID {
		t.Fatalf("expected list scoped to %s, got %s", sellerID, orders.listedFor)
	}
}

func TestOrdersHandler_List_SellerNotFoundPropagatesNotFound(t *testing.T) {
	h := NewOrdersHandler(discardLogger(), &fakeSellerLookup{}, &fakeSellerOrderService{})

	req := httptest.NewRequest(http.MethodGet, "/my-orders", nil)
	req.Header.Set("X-Principal-Subject", "ghost")
	req.Header.Set("X-Principal-Groups", "seller_users")
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
