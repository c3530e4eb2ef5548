// Package realtime implements the notifier contract (C9): publishing
// domain events to per-tenant channels over Redis Pub/Sub, relaying
// them to browser/mobile clients over WebSocket, and posting
// operator-actionable alerts to Slack.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes JSON messages to namespaced Redis Pub/Sub channels.
type Notifier struct {
	rdb    *redis.Client
	prefix string // e.g. "dev" — mirrors the spec's environment-scoped channel names
}

// NewNotifier creates a Notifier. prefix namespaces every channel name
// (e.g. "dev:sellers:42") so that staging and production traffic on a
// shared Redis instance never cross.
func NewNotifier(rdb *redis.Client, prefix string) *Notifier {
	return &Notifier{rdb: rdb, prefix: prefix}
}

// SellerChannel returns the channel name a given seller's clients subscribe to.
func (n *Notifier) SellerChannel(sellerID string) string {
	return fmt.Sprintf("%s:sellers:%s", n.prefix, sellerID)
}

// ClientChannel returns the channel name a given client's clients subscribe to.
func (n *Notifier) ClientChannel(clientID string) string {
	return fmt.Sprintf("%s:clients:%s", n.prefix, clientID)
}

// Publish marshals payload and publishes it on channel. Like event
// publication (C8), this is fire-and-forget: a missing subscriber is
// not an error, since realtime updates are a convenience layer over the
// durable state that REST reads return anyway.
func (n *Notifier) Publish(ctx context.Context, channel string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling realtime payload: %w", err)
	}
	if err := n.rdb.Publish(ctx, channel, raw).Err(); err != nil {
		return fmt.Errorf("publishing to %s: %w", channel, err)
	}
	return nil
}

// Subscribe returns a Redis Pub/Sub subscription on channel. The caller
// owns the returned subscription and must Close it.
func (n *Notifier) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	return n.rdb.Subscribe(ctx, channel)
}
