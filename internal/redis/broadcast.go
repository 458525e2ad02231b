package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// Topics published by the engine. Delivery is at-most-once, best-effort;
// subscribers poll the API if they miss an event.
const (
	TopicRideRequested         = "ride_requested"
	TopicRideStatusUpdated     = "ride_status_updated"
	TopicDriverLocationUpdated = "driver_location_updated"
)

// Broadcaster publishes state-change events over Redis pub/sub.
type Broadcaster struct {
	client *redis.Client
}

// NewBroadcaster creates a new Broadcaster.
func NewBroadcaster(client *redis.Client) *Broadcaster {
	return &Broadcaster{client: client}
}

// Publish sends a JSON-encoded payload on the given topic.
func (b *Broadcaster) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, topic, data).Err()
}
