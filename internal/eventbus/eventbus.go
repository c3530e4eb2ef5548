// Package eventbus adapts Redis Streams to the publish/consume contract
// the spec describes in terms of an SQS-like queue (C8): XADD stands in
// for SendMessage, a consumer group's XREADGROUP/XACK/XAUTOCLAIM stands in
// for ReceiveMessage/DeleteMessage/visibility-timeout redelivery.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/telemetry"
)

// Event is the envelope every published message carries: a fresh
// event_id, the UTC timestamp of publication, a type discriminator, and
// an arbitrary JSON payload.
type Event struct {
	EventID   uuid.UUID       `json:"event_id"`
	EventType string          `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Bus publishes to and consumes from a Redis Stream. streamKey is the
// fully-qualified stream name (QueueStreamPrefix + ":" + topic).
type Bus struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// New creates a Bus.
func New(rdb *redis.Client, logger *slog.Logger) *Bus {
	return &Bus{rdb: rdb, logger: logger}
}

// Publish appends event to streamKey. Publication is fire-and-forget:
// the caller does not wait for a consumer, and a failure here is returned
// for the caller to log but never rolls back the caller's own transaction — outbound events
// are at-least-once, not exactly-once.
func (b *Bus) Publish(ctx context.Context, streamKey, eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling event payload: %w", err)
	}

	evt := Event{
		EventID:   uuid.New(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Payload:   raw,
	}
	envelope, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshalling event envelope: %w", err)
	}

	err = b.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		Values: map[string]any{"event": string(envelope)},
	}).Err()
	if err != nil {
		return fmt.Errorf("publishing event to %s: %w", streamKey, err)
	}

	telemetry.EventsPublishedTotal.WithLabelValues(eventType).Inc()
	return nil
}

// EnsureGroup creates the consumer group on streamKey if it doesn't
// already exist, reading from the start of the stream.
func (b *Bus) EnsureGroup(ctx context.Context, streamKey, group string) error {
	err := b.rdb.XGroupCreateMkStream(ctx, streamKey, group, "0").Err()
	if err != nil && !isBusyGroupErr(err) {
		return fmt.Errorf("creating consumer group %s on %s: %w", group, streamKey, err)
	}
	return nil
}

func isBusyGroupErr(err error) bool {
	return err != nil && len(err.Error()) >= 9 && err.Error()[:9] == "BUSYGROUP"
}

// Handler processes one event. Returning nil acks the message. Returning
// a retryable error leaves the message pending for redelivery after the
// visibility timeout; returning ErrDrop acks and drops it (malformed
// payload or unknown event type — redelivery would never succeed).
type Handler func(ctx context.Context, evt Event) error

// ErrDrop signals a message that cannot ever be processed and should be
// acked without retry.
var ErrDrop = fmt.Errorf("drop message without retry")

// ConsumeOptions configures a poll loop.
type ConsumeOptions struct {
	StreamKey     string
	Group         string
	Consumer      string
	PollMax       int64
	PollWait      time.Duration
	VisibilityTTL time.Duration
}

// Run polls streamKey under the given consumer group until ctx is
// cancelled, processing each batch's messages sequentially (per the
// spec's per-consumer ordering guarantee) and acking or leaving pending
// according to Handler's outcome. It also reclaims messages that have
// sat pending past VisibilityTTL, mimicking a queue's visibility
// timeout.
func (b *Bus) Run(ctx context.Context, opts ConsumeOptions, handle Handler) error {
	if err := b.EnsureGroup(ctx, opts.StreamKey, opts.Group); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := b.reclaimStale(ctx, opts, handle); err != nil {
			b.logger.Warn("reclaiming stale messages failed", "error", err, "stream", opts.StreamKey)
		}

		streams, err := b.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    opts.Group,
			Consumer: opts.Consumer,
			Streams:  []string{opts.StreamKey, ">"},
			Count:    opts.PollMax,
			Block:    opts.PollWait,
		}).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.logger.Error("reading from stream", "error", err, "stream", opts.StreamKey)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				b.processMessage(ctx, opts, msg, handle)
			}
		}
	}
}

func (b *Bus) processMessage(ctx context.Context, opts ConsumeOptions, msg redis.XMessage, handle Handler) {
	raw, ok := msg.Values["event"].(string)
	if !ok {
		b.ackAndDrop(ctx, opts, msg.ID, "unknown")
		return
	}

	var evt Event
	if err := json.Unmarshal([]byte(raw), &evt); err != nil {
		b.logger.Warn("dropping unparseable event", "error", err, "message_id", msg.ID)
		b.ackAndDrop(ctx, opts, msg.ID, "unknown")
		return
	}

	err := handle(ctx, evt)
	switch {
	case err == nil:
		b.ack(ctx, opts, msg.ID)
		telemetry.EventsConsumedTotal.WithLabelValues(evt.EventType, "acked").Inc()
	case err == ErrDrop:
		b.ackAndDrop(ctx, opts, msg.ID, evt.EventType)
	default:
		b.logger.Warn("handler failed, leaving message pending for redelivery",
			"error", err, "event_type", evt.EventType, "message_id", msg.ID)
		telemetry.EventsConsumedTotal.WithLabelValues(evt.EventType, "redelivered").Inc()
	}
}

func (b *Bus) ack(ctx context.Context, opts ConsumeOptions, messageID string) {
	if err := b.rdb.XAck(ctx, opts.StreamKey, opts.Group, messageID).Err(); err != nil {
		b.logger.Error("acking message", "error", err, "message_id", messageID)
	}
}

func (b *Bus) ackAndDrop(ctx context.Context, opts ConsumeOptions, messageID, eventType string) {
	b.ack(ctx, opts, messageID)
	telemetry.EventsConsumedTotal.WithLabelValues(eventType, "dropped").Inc()
}

// reclaimStale claims messages that have been pending longer than
// VisibilityTTL without being acked, so a consumer that crashed
// mid-processing doesn't strand them forever, then processes them
// immediately under this consumer's identity.
func (b *Bus) reclaimStale(ctx context.Context, opts ConsumeOptions, handle Handler) error {
	claimed, _, err := b.rdb.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   opts.StreamKey,
		Group:    opts.Group,
		Consumer: opts.Consumer,
		MinIdle:  opts.VisibilityTTL,
		Start:    "0",
		Count:    opts.PollMax,
	}).Result()
	if err != nil {
		return err
	}

	for _, msg := range claimed {
		b.processMessage(ctx, opts, msg, handle)
	}
	return nil
}
