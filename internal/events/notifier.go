package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/crm/internal/clock"
	"github.com/smallbiznis/crm/internal/config"
	"github.com/smallbiznis/crm/internal/observability/logger"
	"github.com/smallbiznis/crm/pkg/telemetry"
	"github.com/smallbiznis/crm/pkg/telemetry/correlation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type NotifierParams struct {
	fx.In

	Config    config.Config
	Publisher Publisher
	Routing   *config.EventRoutingHolder
	Clock     clock.Clock
	Metrics   *telemetry.Metrics `optional:"true"`
	Log       *zap.Logger
}

// Notifier builds lifecycle envelopes and hands them to the configured
// publisher. It is invoked after the mutation has committed, or inside its
// transaction when the publisher is Transactional.
type Notifier struct {
	cfg       config.EventsConfig
	publisher Publisher
	routing   *config.EventRoutingHolder
	clock     clock.Clock
	metrics   *telemetry.Metrics
	log       *zap.Logger
	tracer    trace.Tracer
}

func NewNotifier(p NotifierParams) *Notifier {
	routing := p.Routing
	if routing == nil {
		routing = config.NewStaticEventRoutingHolder(config.EventRouting{})
	}
	return &Notifier{
		cfg:       p.Config.Events,
		publisher: p.Publisher,
		routing:   routing,
		clock:     p.Clock,
		metrics:   p.Metrics,
		log:       p.Log.Named("events.notifier"),
		tracer:    otel.Tracer("crm/events"),
	}
}

// For returns the notifier bound to one entity kind.
func (n *Notifier) For(kind string) *KindNotifier {
	return &KindNotifier{n: n, kind: kind}
}

type KindNotifier struct {
	n    *Notifier
	kind string
}

func (k *KindNotifier) Kind() string { return k.kind }

// InTx reports whether envelopes must be emitted inside the mutation's
// transaction.
func (k *KindNotifier) InTx() bool {
	t, ok := k.n.publisher.(Transactional)
	return ok && t.Transactional()
}

func (k *KindNotifier) Created(ctx context.Context, tenantID uuid.UUID, snapshot map[string]any) (Envelope, error) {
	return k.Emit(ctx, ActionCreated, tenantID, CreatedData(tenantID.String(), snapshot), nil)
}

func (k *KindNotifier) Updated(ctx context.Context, tenantID uuid.UUID, delta, snapshot map[string]any) (Envelope, error) {
	return k.Emit(ctx, ActionUpdated, tenantID, UpdatedData(tenantID.String(), delta, snapshot), nil)
}

func (k *KindNotifier) Deleted(ctx context.Context, tenantID uuid.UUID, deletedAt time.Time) (Envelope, error) {
	return k.Emit(ctx, ActionDeleted, tenantID, DeletedData(tenantID.String(), deletedAt), nil)
}

// Emit publishes one envelope. A muted kind returns a zero Envelope and no
// error. Publish failures are returned to the caller; outside a transaction
// the mutation has already committed.
func (k *KindNotifier) Emit(ctx context.Context, action Action, tenantID uuid.UUID, data map[string]any, headers map[string]string) (Envelope, error) {
	n := k.n
	if n.routing.Get().IsMuted(k.kind) {
		n.metrics.RecordMuted(k.kind)
		logger.WithContext(ctx, n.log).Debug("event muted",
			zap.String("kind", k.kind), zap.String("action", string(action)))
		return Envelope{}, nil
	}

	eventType := fmt.Sprintf("%s.%s.%s", n.cfg.Exchange, k.kind, action)
	ctx, span := n.tracer.Start(ctx, "publish "+eventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.destination.name", n.cfg.Exchange+"."+k.kind),
			attribute.String("tenant_id", tenantID.String()),
		))
	defer span.End()

	ctx, correlationID := correlation.EnsureCorrelationID(ctx)
	env := Envelope{
		EventID:       ulid.Make().String(),
		EventType:     eventType,
		SchemaVersion: n.cfg.SchemaVersion,
		OccurredAt:    n.clock.Now().UTC(),
		Producer:      n.cfg.Producer,
		TenantID:      tenantID.String(),
		CorrelationID: correlationID,
		CausationID:   correlation.ExtractCausationID(ctx),
		Traceparent:   correlation.Traceparent(ctx),
		Data:          data,
		Kind:          k.kind,
		Action:        action,
	}
	env.Headers = map[string]string{
		"tenant_id":      env.TenantID,
		"message_id":     env.EventID,
		"correlation_id": env.CorrelationID,
	}
	if env.CausationID != "" {
		env.Headers["causation_id"] = env.CausationID
	}
	for key, value := range headers {
		env.Headers[key] = value
	}
	span.SetAttributes(attribute.String("messaging.message.id", env.EventID))

	pubCtx := ctx
	if n.cfg.PublishTimeout > 0 {
		var cancel context.CancelFunc
		pubCtx, cancel = context.WithTimeout(ctx, n.cfg.PublishTimeout)
		defer cancel()
	}

	start := time.Now()
	err := n.publisher.Publish(pubCtx, env)
	n.metrics.RecordPublish(k.kind, string(action), n.publisher.Name(), err, time.Since(start))

	log := logger.WithContext(ctx, n.log).With(
		zap.String("event_type", eventType),
		zap.String("event_id", env.EventID),
		zap.String("transport", n.publisher.Name()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish failed")
		log.Error("event publish failed", zap.Error(err), zap.Bool("in_tx", txFrom(ctx) != nil))
		return env, fmt.Errorf("publish %s: %w", eventType, err)
	}
	log.Debug("event published")
	return env, nil
}
