package idempotency

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/telemetry"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestMain(m *testing.M) {
	telemetry.IdempotencyChecksTotal.Reset()
	m.Run()
}

// fakeDB is a minimal DBTX double recording whether an event ID was
// "inserted" and reporting it back out of QueryRow/Exec without a real
// database, mirroring the teacher's style of hand-rolled test doubles
// for narrow repository interfaces.
type fakeDB struct {
	processed map[string]bool
}

func newFakeDB() *fakeDB {
	return &fakeDB{processed: make(map[string]bool)}
}

func (f *fakeDB) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	id := args[0].(uuid.UUID)
	f.processed[id.String()] = true
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	id := args[0].(uuid.UUID)
	return fakeRow{exists: f.processed[id.String()]}
}

type fakeRow struct{ exists bool }

func (r fakeRow) Scan(dest ...any) error {
	*dest[0].(*bool) = r.exists
	return nil
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("starting miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestLedger_MarkAndCheck(t *testing.T) {
	rdb := newTestRedis(t)
	db := newFakeDB()
	ledger := New(rdb, discardLogger())

	eventID := uuid.New()
	ctx := context.Background()

	processed, err := ledger.HasBeenProcessed(ctx, db, eventID)
	if err != nil {
		t.Fatalf("HasBeenProcessed() error = %v", err)
	}
	if processed {
		t.Error("expected not processed before MarkAsProcessed")
	}

	if err := ledger.MarkAsProcessed(ctx, db, eventID, "order_created"); err != nil {
		t.Fatalf("MarkAsProcessed() error = %v", err)
	}

	processed, err = ledger.HasBeenProcessed(ctx, db, eventID)
	if err != nil {
		t.Fatalf("HasBeenProcessed() error = %v", err)
	}
	if !processed {
		t.Error("expected processed after MarkAsProcessed")
	}
}

func TestLedger_RedisHitAvoidsDBFallback(t *testing.T) {
	rdb := newTestRedis(t)
	db := newFakeDB()
	ledger := New(rdb, discardLogger())

	eventID := uuid.New()
	ctx := context.Background()

	if err := ledger.MarkAsProcessed(ctx, db, eventID, "order_created"); err != nil {
		t.Fatalf("MarkAsProcessed() error = %v", err)
	}

	// Clear the DB-side record; the Redis cache alone should still report processed.
	delete(db.processed, eventID.String())

	processed, err := ledger.HasBeenProcessed(ctx, db, eventID)
	if err != nil {
		t.Fatalf("HasBeenProcessed() error = %v", err)
	}
	if !processed {
		t.Error("expected Redis cache hit to report processed even after DB record removed")
	}
}
