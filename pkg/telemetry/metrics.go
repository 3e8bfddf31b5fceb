package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess  = "success"
	OutcomeNoop     = "noop"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Metrics exposes Prometheus instruments for entity lifecycle mutations and
// event delivery.
type Metrics struct {
	mutations         *prometheus.CounterVec
	eventsPublished   *prometheus.CounterVec
	publishDuration   *prometheus.HistogramVec
	eventsMuted       *prometheus.CounterVec
	outboxDispatch    *prometheus.CounterVec
	outboxDispatchDur *prometheus.HistogramVec
	outboxBacklog     prometheus.Gauge
}

// NewMetrics registers the lifecycle instruments on registerer.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_entity_mutations_total",
			Help: "Entity mutations by kind, action and outcome.",
		}, []string{"kind", "action", "outcome"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_events_published_total",
			Help: "Lifecycle events handed to the transport by kind, action and status.",
		}, []string{"kind", "action", "transport", "status"}),
		publishDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crm_event_publish_duration_seconds",
			Help:    "Time spent handing one lifecycle event to the transport.",
			Buckets: prometheus.DefBuckets,
		}, []string{"transport"}),
		eventsMuted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_events_muted_total",
			Help: "Lifecycle events skipped because the kind is muted.",
		}, []string{"kind"}),
		outboxDispatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_outbox_dispatch_total",
			Help: "Outbox relay batches by status.",
		}, []string{"status"}),
		outboxDispatchDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crm_outbox_dispatch_duration_seconds",
			Help:    "Outbox relay batch durations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		outboxBacklog: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crm_outbox_backlog",
			Help: "Unpublished rows left in the outbox after the last relay batch.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.mutations, m.eventsPublished, m.publishDuration, m.eventsMuted,
		m.outboxDispatch, m.outboxDispatchDur, m.outboxBacklog,
	} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordMutation counts one create, update or delete attempt.
func (m *Metrics) RecordMutation(kind, action, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(sanitizeLabel(kind), sanitizeLabel(action), sanitizeLabel(outcome)).Inc()
}

// RecordPublish records the outcome of handing an event to a transport.
func (m *Metrics) RecordPublish(kind, action, transport string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := OutcomeSuccess
	if err != nil {
		status = OutcomeError
	}
	m.eventsPublished.WithLabelValues(sanitizeLabel(kind), sanitizeLabel(action), sanitizeLabel(transport), status).Inc()
	m.publishDuration.WithLabelValues(sanitizeLabel(transport)).Observe(duration.Seconds())
}

func (m *Metrics) RecordMuted(kind string) {
	if m == nil {
		return
	}
	m.eventsMuted.WithLabelValues(sanitizeLabel(kind)).Inc()
}

// RecordOutboxBatch registers dispatch batch metrics.
func (m *Metrics) RecordOutboxBatch(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.outboxDispatch.WithLabelValues(status).Inc()
	m.outboxDispatchDur.WithLabelValues(status).Observe(duration.Seconds())
}

// SetOutboxBacklog updates the backlog gauge.
func (m *Metrics) SetOutboxBacklog(value float64) {
	if m == nil {
		return
	}
	m.outboxBacklog.Set(value)
}

func sanitizeLabel(val string) string {
	if val == "" {
		return "unknown"
	}
	return val
}
