package eventbus

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("starting miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(rdb, discardLogger())
}

type orderCreatedPayload struct {
	OrderID string `json:"order_id"`
}

func TestPublishAndConsume_Ack(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	streamKey := "comops:orders"
	if err := bus.Publish(ctx, streamKey, "order_created", orderCreatedPayload{OrderID: "abc"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	var mu sync.Mutex
	var received []Event

	runCtx, runCancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer runCancel()

	_ = bus.Run(runCtx, ConsumeOptions{
		StreamKey:     streamKey,
		Group:         "sellers",
		Consumer:      "test-consumer",
		PollMax:       10,
		PollWait:      20 * time.Millisecond,
		VisibilityTTL: time.Second,
	}, func(_ context.Context, evt Event) error {
		mu.Lock()
		received = append(received, evt)
		mu.Unlock()
		runCancel()
		return nil
	})

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("received %d events, want 1", len(received))
	}
	if received[0].EventType != "order_created" {
		t.Errorf("EventType = %q, want order_created", received[0].EventType)
	}
}

func TestConsume_HandlerErrorLeavesMessagePending(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()
	streamKey := "comops:orders-retry"

	if err := bus.Publish(ctx, streamKey, "order_created", orderCreatedPayload{OrderID: "retry-me"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	var attempts int
	runCtx, runCancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer runCancel()

	_ = bus.Run(runCtx, ConsumeOptions{
		StreamKey:     streamKey,
		Group:         "sellers",
		Consumer:      "test-consumer",
		PollMax:       10,
		PollWait:      20 * time.Millisecond,
		VisibilityTTL: time.Second,
	}, func(_ context.Context, _ Event) error {
		attempts++
		if attempts == 1 {
			return errShouldRetry
		}
		runCancel()
		return nil
	})

	if attempts < 1 {
		t.Fatal("handler was never invoked")
	}

	pending, err := bus.rdb.XPending(ctx, streamKey, "sellers").Result()
	if err != nil {
		t.Fatalf("XPending() error = %v", err)
	}
	if pending.Count != 1 {
		t.Errorf("pending count = %d, want 1", pending.Count)
	}
}

var errShouldRetry = errDropSentinel("retryable failure")

type errDropSentinel string

func (e errDropSentinel) Error() string { return string(e) }

func TestConsume_DropOnErrDrop(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()
	streamKey := "comops:orders-drop"

	if err := bus.Publish(ctx, streamKey, "unknown_event", orderCreatedPayload{OrderID: "drop-me"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	var calls int
	runCtx, runCancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer runCancel()

	_ = bus.Run(runCtx, ConsumeOptions{
		StreamKey:     streamKey,
		Group:         "sellers",
		Consumer:      "test-consumer",
		PollMax:       10,
		PollWait:      20 * time.Millisecond,
		VisibilityTTL: time.Second,
	}, func(_ context.Context, _ Event) error {
		calls++
		runCancel()
		return ErrDrop
	})

	if calls != 1 {
		t.Errorf("handler called %d times, want exactly 1 (ErrDrop should not retry)", calls)
	}
}
