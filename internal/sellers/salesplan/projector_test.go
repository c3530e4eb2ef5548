package salesplan

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/eventbus"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/idempotency"
)

type creditCall struct {
	sellerID uuid.UUID
	period   string
	amount   decimal.Decimal
}

type fakeStore struct {
	creditCalls []creditCall
	missingPlan bool
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

func (f *fakeStore) CreditPlan(ctx context.Context, tx pgx.Tx, sellerID uuid.UUID, period string, amount decimal.Decimal) error {
	if f.missingPlan {
		return pgx.ErrNoRows
	}
	f.creditCalls = append(f.creditCalls, creditCall{sellerID, period, amount})
	return nil
}

func (f *fakeStore) CreatePlan(ctx context.Context, p *SalesPlan) error {
	return nil
}

func (f *fakeStore) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]SalesPlan, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) GetBySellerAndPeriod(ctx context.Context, sellerID uuid.UUID, period string) (*SalesPlan, error) {
	return nil, pgx.ErrNoRows
}

type fakeLedger struct {
	processed map[uuid.UUID]bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{processed: map[uuid.UUID]bool{}}
}

func (f *fakeLedger) HasBeenProcessed(ctx context.Context, dbtx idempotency.DBTX, eventID uuid.UUID) (bool, error) {
	return f.processed[eventID], nil
}

func (f *fakeLedger) MarkAsProcessed(ctx context.Context, dbtx idempotency.DBTX, eventID uuid.UUID, eventType string) error {
	f.processed[eventID] = true
	return nil
}

type fakeOpsAlerter struct {
	calls int
}

func (f *fakeOpsAlerter) AlertMissingPlan(ctx context.Context, sellerID uuid.UUID, period string, orderID uuid.UUID) {
	f.calls++
}

func newEvent(t *testing.T, order OrderCreatedEvent) eventbus.Event {
	t.Helper()
	payload, err := json.Marshal(order)
	if err != nil {
		t.Fatalf("marshalling order payload: %v", err)
	}
	return eventbus.Event{
		EventID:   uuid.New(),
		EventType: "order_created",
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

func TestProjector_CreditsMatchingPlan(t *testing.T) {
	store := &fakeStore{}
	ledger := newFakeLedger()
	ops := &fakeOpsAlerter{}
	p := NewProjector(store, ledger, ops)

	sellerID := uuid.New()
	evt := newEvent(t, OrderCreatedEvent{
		OrderID:     uuid.New(),
		CustomerID:  uuid.New(),
		SellerID:    &sellerID,
		TotalAmount: "1250.50",
	})

	if err := p.Handle(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.creditCalls) != 1 {
		t.Fatalf("expected 1 credit call, got %d", len(store.creditCalls))
	}
	if store.creditCalls[0].sellerID != sellerID {
		t.Errorf("credited wrong seller")
	}
	if !store.creditCalls[0].amount.Equal(decimal.RequireFromString("1250.50")) {
		t.Errorf("amount = %s, want 1250.50", store.creditCalls[0].amount)
	}
	if !ledger.processed[evt.EventID] {
		t.Error("expected event marked as processed")
	}
}

func TestProjector_SkipsOrdersWithoutSeller(t *testing.T) {
	store := &fakeStore{}
	ledger := newFakeLedger()
	p := NewProjector(store, ledger, &fakeOpsAlerter{})

	evt := newEvent(t, OrderCreatedEvent{
		OrderID:     uuid.New(),
		CustomerID:  uuid.New(),
		TotalAmount: "100.00",
	})

	if err := p.Handle(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.creditCalls) != 0 {
		t.Error("expected no credit for sellerless order")
	}
	if !ledger.processed[evt.EventID] {
		t.Error("expected event marked as processed even when skipped")
	}
}

func TestProjector_DuplicateEventIsNoop(t *testing.T) {
	store := &fakeStore{}
	ledger := newFakeLedger()
	p := NewProjector(store, ledger, &fakeOpsAlerter{})

	sellerID := uuid.New()
	evt := newEvent(t, OrderCreatedEvent{SellerID: &sellerID, TotalAmount: "50.00"})
	ledger.processed[evt.EventID] = true

	if err := p.Handle(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.creditCalls) != 0 {
		t.Error("expected no credit for an already-processed event")
	}
}

func TestProjector_MissingPlanAlertsAndLeavesEventUnprocessed(t *testing.T) {
	store := &fakeStore{missingPlan: true}
	ledger := newFakeLedger()
	ops := &fakeOpsAlerter{}
	p := NewProjector(store, ledger, ops)

	sellerID := uuid.New()
	evt := newEvent(t, OrderCreatedEvent{SellerID: &sellerID, TotalAmount: "10.00"})

	err := p.Handle(context.Background(), evt)
	if err == nil {
		t.Fatal("expected error for missing plan")
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Errorf("expected error to wrap pgx.ErrNoRows, got %v", err)
	}
	if ops.calls != 1 {
		t.Errorf("expected 1 missing-plan alert, got %d", ops.calls)
	}
	if ledger.processed[evt.EventID] {
		t.Error("expected event NOT marked as processed on missing plan")
	}
}

func TestCurrentQuarter(t *testing.T) {
	tests := []struct {
		month time.Month
		year  int
		want  string
	}{
		{time.January, 2026, "Q1-2026"},
		{time.March, 2026, "Q1-2026"},
		{time.April, 2026, "Q2-2026"},
		{time.July, 2026, "Q3-2026"},
		{time.October, 2026, "Q4-2026"},
		{time.December, 2026, "Q4-2026"},
	}
	for _, tt := range tests {
		got := currentQuarter(time.Date(tt.year, tt.month, 15, 0, 0, 0, 0, time.UTC))
		if got != tt.want {
			t.Errorf("currentQuarter(%s) = %s, want %s", tt.month, got, tt.want)
		}
	}
}
