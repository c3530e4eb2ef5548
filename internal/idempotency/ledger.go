// Package idempotency implements the processed-events ledger (C2) that
// keeps at-least-once event delivery from double-applying a side
// effect. Redis is a hot-path cache in front of the durable Postgres
// record; a miss always falls through to the database before
// concluding an event is new.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/telemetry"
)

const (
	cacheTTL  = 24 * time.Hour
	keyPrefix = "idempotency:"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so ledger checks
// can run inside the caller's transaction when one is in flight.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Ledger checks and records processed event IDs.
type Ledger struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// New creates a Ledger.
func New(rdb *redis.Client, logger *slog.Logger) *Ledger {
	return &Ledger{rdb: rdb, logger: logger}
}

func cacheKey(eventID uuid.UUID) string {
	return keyPrefix + eventID.String()
}

// HasBeenProcessed reports whether eventID has already been applied.
// It checks Redis first; on a miss or Redis error it falls back to the
// processed_events table inside dbtx (the caller's transaction, so the
// check is consistent with whatever else that transaction is about to do).
func (l *Ledger) HasBeenProcessed(ctx context.Context, dbtx DBTX, eventID uuid.UUID) (bool, error) {
	if val, err := l.rdb.Exists(ctx, cacheKey(eventID)).Result(); err == nil {
		if val > 0 {
			telemetry.IdempotencyChecksTotal.WithLabelValues("redis_hit").Inc()
			return true, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		l.logger.Warn("redis idempotency lookup failed, falling back to db", "error", err)
	}

	var exists bool
	err := dbtx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)`,
		eventID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking processed_events: %w", err)
	}

	if exists {
		telemetry.IdempotencyChecksTotal.WithLabelValues("db_hit").Inc()
		l.warmCache(ctx, eventID)
	} else {
		telemetry.IdempotencyChecksTotal.WithLabelValues("miss").Inc()
	}

	return exists, nil
}

// MarkAsProcessed inserts eventID into processed_events inside dbtx and
// warms the Redis cache. Always call this within the same transaction
// that applied the event's side effect, so a rollback undoes both.
func (l *Ledger) MarkAsProcessed(ctx context.Context, dbtx DBTX, eventID uuid.UUID, eventType string) error {
	_, err := dbtx.Exec(ctx,
		`INSERT INTO processed_events (event_id, event_type, processed_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (event_id) DO NOTHING`,
		eventID, eventType,
	)
	if err != nil {
		return fmt.Errorf("inserting processed_events: %w", err)
	}

	l.warmCache(ctx, eventID)
	return nil
}

func (l *Ledger) warmCache(ctx context.Context, eventID uuid.UUID) {
	if err := l.rdb.Set(ctx, cacheKey(eventID), "1", cacheTTL).Err(); err != nil {
		l.logger.Warn("failed to warm idempotency cache", "error", err, "event_id", eventID)
	}
}
