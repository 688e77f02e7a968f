package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const redisChannelPrefix = "counter:events:"

type redisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher publishes each event on its own channel and on
// counter:events:all.
func NewRedisPublisher(client *redis.Client) Publisher {
	return &redisPublisher{client: client}
}

func (p *redisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.Publish(ctx, redisChannelPrefix+event.EventType, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	if err := p.client.Publish(ctx, redisChannelPrefix+"all", payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to all channel: %w", err)
	}
	return nil
}

// Close is a no-op; the client is shared with the state store and closed by main.
func (p *redisPublisher) Close() error {
	return nil
}
