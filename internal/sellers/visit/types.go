// Package visit implements the Create-Visit saga (C6): client
// assignment orchestration, temporal validation, and visit persistence
// with a denormalized client snapshot.
package visit

import (
	"time"

	"github.com/google/uuid"
)

// Status is the visit's state machine: SCHEDULED is the only starting
// state, and COMPLETED/CANCELLED are both terminal.
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// minimumLeadTime is how far in the future fecha_visita must fall at
// creation time.
const minimumLeadTime = 24 * time.Hour

// conflictWindow is the minimum gap required between any two
// non-cancelled visits of the same seller.
const conflictWindow = 180 * time.Minute

// CreateRequest is the saga's input.
type CreateRequest struct {
	SellerID    uuid.UUID
	ClientID    uuid.UUID
	ScheduledAt time.Time
	Notes       *string
}

// Client is the denormalized snapshot the saga fetches from the client
// service, including its current seller assignment.
type Client struct {
	ID               uuid.UUID
	AssignedSellerID *uuid.UUID
	Name             string
	Address          string
	City             string
	Country          string
}

// Visit is the persisted aggregate.
type Visit struct {
	ID              uuid.UUID
	SellerID        uuid.UUID
	ClientID        uuid.UUID
	ScheduledAt     time.Time
	Status          Status
	Notes           *string
	Recommendations *string
	EvidenceURL     *string
	ClientName      string
	ClientAddress   string
	ClientCity      string
	ClientCountry   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ConflictingVisit describes the visit that a new request collides with.
type ConflictingVisit struct {
	ID          uuid.UUID
	ScheduledAt time.Time
}

// UpdateStatusRequest transitions a visit's status.
type UpdateStatusRequest struct {
	VisitID         uuid.UUID
	NewStatus       Status
	Recommendations *string
}
