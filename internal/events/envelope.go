package events

import (
	"time"
)

type Action string

const (
	ActionCreated       Action = "created"
	ActionUpdated       Action = "updated"
	ActionDeleted       Action = "deleted"
	ActionStatusChanged Action = "status_changed"
)

// Envelope wraps every lifecycle event handed to a transport.
type Envelope struct {
	EventID       string         `json:"event_id"`
	EventType     string         `json:"event_type"`
	SchemaVersion int            `json:"schema_version"`
	OccurredAt    time.Time      `json:"occurred_at"`
	Producer      string         `json:"producer"`
	TenantID      string         `json:"tenant_id"`
	CorrelationID string         `json:"correlation_id,omitempty"`
	CausationID   string         `json:"causation_id,omitempty"`
	Traceparent   string         `json:"traceparent,omitempty"`
	Data          map[string]any `json:"data"`

	// Kind and Action are routing metadata; EventType already encodes them.
	Kind    string            `json:"-"`
	Action  Action            `json:"-"`
	Headers map[string]string `json:"-"`
}

// Stream is the transport destination for the envelope: one stream per kind.
func (e Envelope) Stream(exchange string) string {
	return exchange + "." + e.Kind
}

func CreatedData(tenantID string, snapshot map[string]any) map[string]any {
	return map[string]any{
		"tenant_id": tenantID,
		"payload":   snapshot,
	}
}

func UpdatedData(tenantID string, delta, snapshot map[string]any) map[string]any {
	return map[string]any{
		"tenant_id": tenantID,
		"changes":   map[string]any{"base_fields": delta},
		"payload":   snapshot,
	}
}

// DeletedData carries only the deletion time; the removed row is not sent.
func DeletedData(tenantID string, deletedAt time.Time) map[string]any {
	return map[string]any{
		"tenant_id":  tenantID,
		"deleted_dt": FormatTime(deletedAt),
	}
}

// FormatTime renders timestamps the way snapshots do.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
