package visit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ClientService fetches and mutates client assignment state.
type ClientService interface {
	GetClient(ctx context.Context, clientID uuid.UUID) (Client, error)
	AssignSeller(ctx context.Context, clientID, sellerID uuid.UUID) error
}

// Repository persists visits and answers the seller-scoped conflict query.
type Repository interface {
	// HasConflictingVisit returns the non-cancelled visit of sellerID
	// that falls within conflictWindow of scheduledAt, if any.
	HasConflictingVisit(ctx context.Context, sellerID uuid.UUID, scheduledAt time.Time) (*ConflictingVisit, error)
	Create(ctx context.Context, v *Visit) error
	Get(ctx context.Context, visitID uuid.UUID) (*Visit, error)
	UpdateStatus(ctx context.Context, visitID uuid.UUID, status Status, recommendations *string) error
}

// EventPublisher publishes visit_created, per spec.md's optional C8 hop.
type EventPublisher interface {
	PublishVisitCreated(ctx context.Context, v *Visit) error
}
