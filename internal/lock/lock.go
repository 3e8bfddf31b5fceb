package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

var ErrNotConfigured = errors.New("lock client not configured")

// Locker hands out short redis leases so that only one replica runs a
// periodic job at a time.
type Locker struct {
	client redis.UniversalClient
	script *redis.Script
}

func NewLocker(client redis.UniversalClient) *Locker {
	if client == nil {
		return nil
	}
	return &Locker{
		client: client,
		script: redis.NewScript(releaseScript),
	}
}

// Acquire tries to take key for ttl. When ok is false another holder owns
// the lease and release is a no-op.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error) {
	noop := func(context.Context) error { return nil }
	if l == nil || l.client == nil {
		return noop, false, ErrNotConfigured
	}
	if key == "" {
		return noop, false, errors.New("lock key is empty")
	}
	if ttl <= 0 {
		return noop, false, errors.New("lock ttl must be positive")
	}

	token := uuid.NewString()
	ok, err = l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return noop, false, err
	}
	return func(ctx context.Context) error {
		// Only the owner's token may delete the key.
		return l.script.Run(ctx, l.client, []string{key}, token).Err()
	}, true, nil
}
