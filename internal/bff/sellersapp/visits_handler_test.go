package sellersapp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/downstream"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSellerLookup struct {
	bySubject map[string]uuid.UUID
}

func (f *fakeSellerLookup) SellerIDBySubject(ctx context.Context, subject string) (uuid.UUID, error) {
	id, ok := f.bySubject[subject]
	if !ok {
		return uuid.Nil, errs.New(errs.NotFound, "no seller for subject")
	}
	return id, nil
}

type fakeVisitService struct {
	createdSeller uuid.UUID
	createdClient uuid.UUID
	updatedID     uuid.UUID
	updatedStatus string
}

func (f *fakeVisitService) CreateVisit(ctx context.Context, sellerID, clientID uuid.UUID, scheduledAt time.Time, notes *string) (*downstream.VisitSummary, error) {
	f.createdSeller = sellerID
	f.createdClient = clientID
	return &downstream.VisitSummary{ID: uuid.New(), SellerID: sellerID, ClientID: clientID, ScheduledAt: scheduledAt, Status: "SCHEDULED"}, nil
}

func (f *fakeVisitService) UpdateVisitStatus(ctx context.Context, visitID uuid.UUID, status string, recommendations *string) (*downstream.VisitSummary, error) {
	f.updatedID = visitID
	f.updatedStatus = status
	return &downstream.VisitSummary{ID: visitID, Status: status}, nil
}

func TestVisitsHandler_Create_ResolvesSellerThenCreates(t *testing.T) {
	sellerID := uuid.New()
	clientID := uuid.New()
	lookup := &fakeSellerLookup{bySubject: map[string]uuid.UUID{"seller-sub": sellerID}}
	visits := &fakeVisitService{}
	h := NewVisitsHandler(discardLogger(), lookup, visits)

	payload, _ := json.Marshal(createVisitRequestBody{ClientID: clientID, ScheduledAt: time.Now().Add(48 * time.Hour)})
	req := httptest.NewRequest(http.MethodPost, "/visits", bytes.NewReader(payload))
	req.Header.Set("X-Principal-Subject", "seller-sub")
	req.Header.Set("X-Principal-Groups", "seller_users")
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if visits.createdSeller != sellerID || visits.createdClient != clientID {
		t.Fatalf("expected visit created for seller=%s client=%s, got seller=%s client=%s", sellerID, clientID, visits.createdSeller, visits.createdClient)
	}
}

func TestVisitsHandler_Create_RejectsNonSellerGroup(t *testing.T) {
	h := NewVisitsHandler(discardLogger(), &fakeSellerLookup{}, &fakeVisitService{})

	payload, _ := json.Marshal(createVisitRequestBody{ClientID: uuid.New(), ScheduledAt: time.Now().Add(48 * time.Hour)})
	req := httptest.NewRequest(http.MethodPost, "/visits", bytes.NewReader(payload))
	req.Header.Set("X-Principal-Subject", "sub-1")
	req.Header.Set("X-Principal-Groups", "client_users")
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestVisitsHandler_UpdateStatus_RejectsInvalidStatus(t *testing.T) {
	h := NewVisitsHandler(discardLogger(), &fakeSellerLookup{}, &fakeVisitService{})

	req := httptest.NewRequest(http.MethodPatch, "/visits/"+uuid.New().String()+"/status", bytes.NewReader([]byte(`{"status":"BOGUS"}`)))
	req.Header.Set("X-Principal-Subject", "seller-sub")
	req.Header.Set("X-Principal-Groups", "seller_users")
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestVisitsHandler_UpdateStatus_Success(t *testing.T) {
	visits := &fakeVisitService{}
	h := NewVisitsHandler(discardLogger(), &fakeSellerLookup{}, visits)

	visitID := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/visits/"+visitID.String()+"/status", bytes.NewReader([]byte(`{"status":"COMPLETED"}`)))
	req.Header.Set("X-Principal-Subject", "seller-sub")
	req.Header.Set("X-Principal-Groups", "seller_users")
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if visits.updatedID != visitID || visits.updatedStatus != "COMPLETED" {
		t.Fatalf("expected update for visit=%s status=COMPLETED, got visit=%s status=%s", visitID, visits.updatedID, visits.updatedStatus)
	}
}
