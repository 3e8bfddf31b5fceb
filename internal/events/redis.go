package events

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"
)

// RedisPublisher appends envelopes to one redis stream per entity kind.
type RedisPublisher struct {
	client   redis.UniversalClient
	exchange string
	maxLen   int64
}

func NewRedisPublisher(client redis.UniversalClient, exchange string) *RedisPublisher {
	return &RedisPublisher{client: client, exchange: exchange, maxLen: 100_000}
}

func (p *RedisPublisher) Name() string { return "redis" }

func (p *RedisPublisher) Publish(ctx context.Context, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	values := make(map[string]any, len(env.Headers)+2)
	for k, v := range env.Headers {
		values[k] = v
	}
	values["event_type"] = env.EventType
	values["envelope"] = body

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: env.Stream(p.exchange),
		MaxLen: p.maxLen,
		Approx: true,
		Values: values,
	}).Err()
}
