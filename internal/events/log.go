package events

import (
	"context"

	"go.uber.org/zap"
)

// LogPublisher writes envelopes to the application log. Used for local
// development where no broker is running.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log.Named("events.log")}
}

func (p *LogPublisher) Name() string { return "log" }

func (p *LogPublisher) Publish(_ context.Context, env Envelope) error {
	p.log.Info("lifecycle event",
		zap.String("event_id", env.EventID),
		zap.String("event_type", env.EventType),
		zap.String("tenant_id", env.TenantID),
		zap.String("correlation_id", env.CorrelationID),
		zap.Any("data", env.Data),
	)
	return nil
}
