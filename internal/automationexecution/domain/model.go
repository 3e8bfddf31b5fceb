package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"gorm.io/datatypes"
)

// AutomationActionExecution records one invocation of an automation action.
// ExecutionKey makes invocations idempotent per tenant.
type AutomationActionExecution struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID      `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:ux_automation_action_execution_tenant_key,priority:1;index:ix_automation_action_execution_tenant_action_status,priority:1;index:ix_automation_action_execution_entity,priority:1"`
	ActionID     uuid.UUID      `json:"action_id" gorm:"type:uuid;not null;index:ix_automation_action_execution_tenant_action_status,priority:2"`
	EntityType   string         `json:"entity_type" gorm:"size:50;not null;index:ix_automation_action_execution_entity,priority:2"`
	EntityID     uuid.UUID      `json:"entity_id" gorm:"type:uuid;not null;index:ix_automation_action_execution_entity,priority:3"`
	PipelineID   *uuid.UUID     `json:"pipeline_id" gorm:"type:uuid"`
	FromStageID  *uuid.UUID     `json:"from_stage_id" gorm:"type:uuid"`
	ToStageID    *uuid.UUID     `json:"to_stage_id" gorm:"type:uuid"`
	ListID       *uuid.UUID     `json:"list_id" gorm:"type:uuid"`
	TriggerEvent string         `json:"trigger_event" gorm:"size:100;not null"`
	ExecutionKey string         `json:"execution_key" gorm:"size:100;not null;uniqueIndex:ux_automation_action_execution_tenant_key,priority:2"`
	Status       string         `json:"status" gorm:"size:50;not null;index:ix_automation_action_execution_tenant_action_status,priority:3"`
	ResponseCode *int           `json:"response_code"`
	ResponseBody datatypes.JSON `json:"response_body" gorm:"type:jsonb"`
	ErrorMessage *string        `json:"error_message" gorm:"size:500"`
	TriggeredAt  time.Time      `json:"triggered_at" gorm:"not null"`
	StartedAt    *time.Time     `json:"started_at"`
	CompletedAt  *time.Time     `json:"completed_at"`
	CreatedAt    time.Time      `json:"created_at" gorm:"not null;autoCreateTime:false"`
}

func (AutomationActionExecution) TableName() string { return "automation_action_execution" }

func (e *AutomationActionExecution) Snapshot() map[string]any {
	return map[string]any{
		"id":            e.ID.String(),
		"tenant_id":     e.TenantID.String(),
		"action_id":     e.ActionID.String(),
		"entity_type":   e.EntityType,
		"entity_id":     e.EntityID.String(),
		"pipeline_id":   lifecycle.UUIDPtr(e.PipelineID),
		"from_stage_id": lifecycle.UUIDPtr(e.FromStageID),
		"to_stage_id":   lifecycle.UUIDPtr(e.ToStageID),
		"list_id":       lifecycle.UUIDPtr(e.ListID),
		"trigger_event": e.TriggerEvent,
		"execution_key": e.ExecutionKey,
		"status":        e.Status,
		"response_code": lifecycle.IntPtr(e.ResponseCode),
		"response_body": lifecycle.JSON(e.ResponseBody),
		"error_message": lifecycle.StringPtr(e.ErrorMessage),
		"triggered_at":  lifecycle.Time(e.TriggeredAt),
		"started_at":    lifecycle.TimePtr(e.StartedAt),
		"completed_at":  lifecycle.TimePtr(e.CompletedAt),
		"created_at":    lifecycle.Time(e.CreatedAt),
	}
}

const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusSucceeded  = "SUCCEEDED"
	StatusFailed     = "FAILED"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusSucceeded, StatusFailed:
		return true
	}
	return false
}

func Terminal(s string) bool {
	return s == StatusSucceeded || s == StatusFailed
}

// CanTransition reports whether an execution may move from one status to
// another. Terminal statuses are final.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusInProgress || Terminal(to)
	case StatusInProgress:
		return Terminal(to)
	}
	return false
}
