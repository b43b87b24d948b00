package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultAuthStream = "blogd:auth-events"

// AuthProducer appends auth events to a capped Redis stream. A producer with
// a nil client drops events.
type AuthProducer struct {
	client     *redis.Client
	streamName string
	maxLen     int64
	now        func() time.Time
}

func NewAuthProducer(client *redis.Client, streamName string, maxLen int64) *AuthProducer {
	return &AuthProducer{
		client:     client,
		streamName: streamName,
		maxLen:     maxLen,
		now:        time.Now,
	}
}

func (p *AuthProducer) Enabled() bool {
	return p != nil && p.client != nil
}

func (p *AuthProducer) Publish(ctx context.Context, event *AuthEvent) error {
	if !p.Enabled() {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}

	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.streamName,
		MaxLen: p.maxLen,
		Approx: true,
		Values: event.fields(),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	return nil
}

func (p *AuthProducer) StreamLength(ctx context.Context) (int64, error) {
	if !p.Enabled() {
		return 0, nil
	}
	return p.client.XLen(ctx, p.streamName).Result()
}
