package events

import (
	"context"
	"sync"
	"time"

	"github.com/smallbiznis/crm/internal/clock"
	"github.com/smallbiznis/crm/internal/lock"
	"github.com/smallbiznis/crm/pkg/telemetry"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const relayLockKey = "crm:events:outbox-relay"

// OutboxRelay drains event_outbox into the downstream publisher in id order.
// A batch stops at the first failure so a kind's events are never reordered.
type OutboxRelay struct {
	db       *gorm.DB
	target   Publisher
	locker   *lock.Locker
	clock    clock.Clock
	metrics  *telemetry.Metrics
	log      *zap.Logger
	interval time.Duration
	batch    int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type RelayOptions struct {
	Interval  time.Duration
	BatchSize int
}

func NewOutboxRelay(db *gorm.DB, target Publisher, locker *lock.Locker, clk clock.Clock, metrics *telemetry.Metrics, log *zap.Logger, opts RelayOptions) *OutboxRelay {
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	return &OutboxRelay{
		db:       db,
		target:   target,
		locker:   locker,
		clock:    clk,
		metrics:  metrics,
		log:      log.Named("events.relay"),
		interval: opts.Interval,
		batch:    opts.BatchSize,
	}
}

// RunOnce relays at most one batch and returns how many rows were published.
func (r *OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	if r.locker != nil {
		release, ok, err := r.locker.Acquire(ctx, relayLockKey, r.interval*5)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, nil
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				r.log.Warn("release relay lock", zap.Error(err))
			}
		}()
	}

	start := time.Now()
	var rows []OutboxRecord
	err := r.db.WithContext(ctx).
		Where("published = ?", false).
		Order("id ASC").
		Limit(r.batch).
		Find(&rows).Error
	if err != nil {
		r.metrics.RecordOutboxBatch(telemetry.OutcomeError, time.Since(start))
		return 0, err
	}

	published := 0
	var relayErr error
	for _, row := range rows {
		if relayErr = r.relay(ctx, row); relayErr != nil {
			break
		}
		published++
	}

	status := telemetry.OutcomeSuccess
	if relayErr != nil {
		status = telemetry.OutcomeError
	}
	r.metrics.RecordOutboxBatch(status, time.Since(start))

	var backlog int64
	if err := r.db.WithContext(ctx).Model(&OutboxRecord{}).Where("published = ?", false).Count(&backlog).Error; err == nil {
		r.metrics.SetOutboxBacklog(float64(backlog))
	}
	return published, relayErr
}

func (r *OutboxRelay) relay(ctx context.Context, row OutboxRecord) error {
	env, err := row.ToEnvelope()
	if err == nil {
		err = r.target.Publish(ctx, env)
	}
	if err != nil {
		r.log.Warn("outbox relay failed",
			zap.Int64("outbox_id", row.ID),
			zap.String("event_type", row.EventType),
			zap.Int("attempts", row.Attempts+1),
			zap.Error(err),
		)
		if uerr := r.db.WithContext(ctx).Model(&OutboxRecord{}).Where("id = ?", row.ID).Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": err.Error(),
		}).Error; uerr != nil {
			r.log.Warn("outbox attempt not recorded",
				zap.Int64("outbox_id", row.ID),
				zap.Error(uerr),
			)
		}
		return err
	}

	now := r.clock.Now()
	return r.db.WithContext(ctx).Model(&OutboxRecord{}).Where("id = ?", row.ID).Updates(map[string]any{
		"published":    true,
		"published_at": now,
		"attempts":     gorm.Expr("attempts + 1"),
	}).Error
}

func (r *OutboxRelay) Start(context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
					r.log.Warn("outbox relay batch failed", zap.Error(err))
				}
			}
		}
	}()
	r.log.Info("outbox relay started", zap.Duration("interval", r.interval), zap.Int("batch_size", r.batch))
	return nil
}

func (r *OutboxRelay) Stop(ctx context.Context) error {
	if r.cancel == nil {
		return nil
	}
	r.cancel()
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
