// Package notifications publishes blog activity events over Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"

	"github.com/redis/go-redis/v9"
)

// BroadcastChannel carries every activity event.
const BroadcastChannel = "notifications:broadcast"

// Event is the JSON envelope published on BroadcastChannel.
type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// Notifier publishes events into Redis. A nil client turns every call into a no-op.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Enabled reports whether events leave the process.
func (n *Notifier) Enabled() bool {
	return n != nil && n.rdb != nil
}

// PublishBroadcast sends an event to all subscribers.
func (n *Notifier) PublishBroadcast(ctx context.Context, event Event) error {
	if !n.Enabled() {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}
	return n.rdb.Publish(ctx, BroadcastChannel, string(payload)).Err()
}

// StartSubscriber subscribes to BroadcastChannel and calls onEvent for each
// decodable message until ctx is cancelled. Undecodable payloads are dropped.
func (n *Notifier) StartSubscriber(ctx context.Context, onEvent func(Event)) error {
	if !n.Enabled() {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, BroadcastChannel)
	// Wait for the subscription so events published right after return are not lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", BroadcastChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("notifications: dropping malformed event: %v", err)
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in notification subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onEvent(event)
				}()
			}
		}
	}()

	return nil
}
