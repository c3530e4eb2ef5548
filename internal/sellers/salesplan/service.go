package salesplan

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
)

// Service exposes sales-plan management: creation and seller-scoped
// listing, separate from the event-driven Projector that credits an
// existing plan's accumulator.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a Service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Create inserts a new sales plan for a (seller, period) pair that must
// not already have one.
func (s *Service) Create(ctx context.Context, req CreatePlanRequest) (*SalesPlan, error) {
	_, err := s.store.GetBySellerAndPeriod(ctx, req.SellerID, req.SalesPeriod)
	if err == nil {
		return nil, errs.New(errs.Conflict, "a sales plan already exists for this seller and period").WithCode("DuplicatePlan")
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.Wrap(err, "checking for existing sales plan")
	}

	now := time.Now().UTC()
	plan := &SalesPlan{
		ID:          uuid.New(),
		SellerID:    req.SellerID,
		SalesPeriod: req.SalesPeriod,
		GoalType:    req.GoalType,
		Goal:        req.Goal,
		Accumulate:  decimal.Zero,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreatePlan(ctx, plan); err != nil {
		return nil, errs.Wrap(err, "persisting sales plan")
	}

	return plan, nil
}

// ListBySeller returns a page of sellerID's sales plans.
func (s *Service) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]SalesPlan, int, error) {
	plans, total, err := s.store.ListBySeller(ctx, sellerID, limit, offset)
	if err != nil {
		return nil, 0, errs.Wrap(err, "listing sales plans")
	}
	return plans, total, nil
}
