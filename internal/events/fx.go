package events

import (
	"context"

	"github.com/bwmarrin/snowflake"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/crm/internal/clock"
	"github.com/smallbiznis/crm/internal/config"
	"github.com/smallbiznis/crm/internal/lock"
	"github.com/smallbiznis/crm/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("events",
	fx.Provide(
		NewRedisClient,
		lock.NewLocker,
		providePublisher,
		NewNotifier,
	),
	fx.Invoke(registerRelay),
)

// NewRedisClient returns nil when the log driver is selected.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) redis.UniversalClient {
	if cfg.Events.Driver == config.EventsDriverLog {
		return nil
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{cfg.RedisAddr},
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("redis not reachable at startup", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client
}

type publisherParams struct {
	fx.In

	Config config.Config
	Redis  redis.UniversalClient `optional:"true"`
	DB     *gorm.DB
	GenID  *snowflake.Node
	Log    *zap.Logger
}

func providePublisher(p publisherParams) Publisher {
	switch p.Config.Events.Driver {
	case config.EventsDriverOutbox:
		return NewOutboxPublisher(p.DB, p.GenID)
	case config.EventsDriverLog:
		return NewLogPublisher(p.Log)
	default:
		return NewRedisPublisher(p.Redis, p.Config.Events.Exchange)
	}
}

type relayParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Redis     redis.UniversalClient `optional:"true"`
	Locker    *lock.Locker          `optional:"true"`
	DB        *gorm.DB
	Clock     clock.Clock
	Metrics   *telemetry.Metrics `optional:"true"`
	Log       *zap.Logger
}

// registerRelay starts the outbox relay when the outbox driver is selected.
// Rows are forwarded to the redis streams.
func registerRelay(p relayParams) {
	if p.Config.Events.Driver != config.EventsDriverOutbox {
		return
	}
	relay := NewOutboxRelay(
		p.DB,
		NewRedisPublisher(p.Redis, p.Config.Events.Exchange),
		p.Locker,
		p.Clock,
		p.Metrics,
		p.Log,
		RelayOptions{Interval: p.Config.Events.RelayInterval, BatchSize: p.Config.Events.RelayBatchSize},
	)
	p.Lifecycle.Append(fx.Hook{OnStart: relay.Start, OnStop: relay.Stop})
}
