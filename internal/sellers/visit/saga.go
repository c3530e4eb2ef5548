package visit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
)

// Saga orchestrates client assignment and visit creation as a single
// unit: fetch the client, resolve assignment, validate the requested
// time against the lead-time and per-seller conflict rules, then
// persist. It holds no state of its own beyond its constructor-injected
// collaborators.
type Saga struct {
	clients ClientService
	visits  Repository
	events  EventPublisher
	logger  *slog.Logger
}

// NewSaga creates a Saga.
func NewSaga(clients ClientService, visits Repository, events EventPublisher, logger *slog.Logger) *Saga {
	return &Saga{clients: clients, visits: visits, events: events, logger: logger}
}

// Create runs the full saga.
func (s *Saga) Create(ctx context.Context, req CreateRequest) (*Visit, error) {
	client, err := s.clients.GetClient(ctx, req.ClientID)
	if err != nil {
		if errs.KindOf(err) == errs.NotFound {
			return nil, errs.New(errs.NotFound, "client not found").WithCode("ClientNotFound")
		}
		return nil, err
	}

	if err := s.resolveAssignment(ctx, client, req.SellerID); err != nil {
		return nil, err
	}

	if err := validateLeadTime(req.ScheduledAt); err != nil {
		return nil, err
	}

	conflict, err := s.visits.HasConflictingVisit(ctx, req.SellerID, req.ScheduledAt)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, errs.New(errs.Conflict, "visit conflicts with an existing visit for this seller").
			WithCode("VisitTimeConflict")
	}

	now := time.Now().UTC()
	v := &Visit{
		ID:            uuid.New(),
		SellerID:      req.SellerID,
		ClientID:      req.ClientID,
		ScheduledAt:   req.ScheduledAt,
		Status:        StatusScheduled,
		Notes:         req.Notes,
		ClientName:    client.Name,
		ClientAddress: client.Address,
		ClientCity:    client.City,
		ClientCountry: client.Country,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.visits.Create(ctx, v); err != nil {
		return nil, errs.Wrap(err, "persisting visit")
	}

	if s.events != nil {
		if err := s.events.PublishVisitCreated(ctx, v); err != nil {
			s.logger.Warn("visit_created publish failed", "error", err, "visit_id", v.ID)
		}
	}

	return v, nil
}

// resolveAssignment auto-assigns an unassigned client to the requesting
// seller, permits a request from the already-assigned seller, and
// rejects a request on behalf of any other seller. A failed
// auto-assignment call aborts the saga without compensation — the
// client is simply left unassigned, which is not a partial state that
// needs undoing.
func (s *Saga) resolveAssignment(ctx context.Context, client Client, sellerID uuid.UUID) error {
	switch {
	case client.AssignedSellerID == nil:
		if err := s.clients.AssignSeller(ctx, client.ID, sellerID); err != nil {
			return err
		}
		return nil
	case *client.AssignedSellerID == sellerID:
		return nil
	default:
		return errs.New(errs.Forbidden, "client is assigned to a different seller").
			WithCode("ClientAssignedToOtherSeller")
	}
}

func validateLeadTime(scheduledAt time.Time) error {
	if !scheduledAt.After(time.Now().UTC().Add(minimumLeadTime)) {
		return errs.New(errs.Conflict, "fecha_visita must be at least 24 hours in the future").
			WithCode("InvalidVisitDate")
	}
	return nil
}

// UpdateStatus applies an allowed status transition. SCHEDULED is the
// only non-terminal state; COMPLETED and CANCELLED are each terminal,
// so any transition attempted from them is rejected.
func (s *Saga) UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*Visit, error) {
	v, err := s.visits.Get(ctx, req.VisitID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.New(errs.NotFound, "visit not found").WithCode("VisitNotFound")
		}
		return nil, err
	}

	if !isAllowedTransition(v.Status, req.NewStatus) {
		return nil, errs.Newf(errs.Conflict, "cannot transition visit from %s to %s", v.Status, req.NewStatus).
			WithCode("InvalidStatusTransition")
	}

	if err := s.visits.UpdateStatus(ctx, req.VisitID, req.NewStatus, req.Recommendations); err != nil {
		return nil, errs.Wrap(err, "updating visit status")
	}

	v.Status = req.NewStatus
	v.Recommendations = req.Recommendations
	return v, nil
}

func isAllowedTransition(from, to Status) bool {
	return from == StatusScheduled && (to == StatusCompleted || to == StatusCancelled)
}
