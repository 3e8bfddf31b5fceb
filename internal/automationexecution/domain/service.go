package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"gorm.io/datatypes"
)

// Service records executions. Executions are never deleted.
type Service interface {
	List(ctx context.Context, req ListRequest) (pagination.Envelope[*AutomationActionExecution], error)
	Create(ctx context.Context, tenantID uuid.UUID, req CreateRequest) (*AutomationActionExecution, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*AutomationActionExecution, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateRequest) (*AutomationActionExecution, error)
}

// ListRequest filters by action, by entity (type and id together) and by
// status.
type ListRequest struct {
	TenantID   *uuid.UUID
	ActionID   *uuid.UUID
	EntityType *string
	EntityID   *uuid.UUID
	Status     *string
	Page       pagination.Page
}

type CreateRequest struct {
	ActionID     uuid.UUID       `json:"action_id"`
	EntityType   string          `json:"entity_type"`
	EntityID     uuid.UUID       `json:"entity_id"`
	PipelineID   *uuid.UUID      `json:"pipeline_id"`
	FromStageID  *uuid.UUID      `json:"from_stage_id"`
	ToStageID    *uuid.UUID      `json:"to_stage_id"`
	ListID       *uuid.UUID      `json:"list_id"`
	TriggerEvent string          `json:"trigger_event"`
	ExecutionKey string          `json:"execution_key"`
	ResponseCode *int            `json:"response_code"`
	ResponseBody *datatypes.JSON `json:"response_body"`
	ErrorMessage *string         `json:"error_message"`
	TriggeredAt  *time.Time      `json:"triggered_at"`
	StartedAt    *time.Time      `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
}

type UpdateRequest struct {
	Status       *string         `json:"status"`
	ResponseCode *int            `json:"response_code"`
	ResponseBody *datatypes.JSON `json:"response_body"`
	ErrorMessage *string         `json:"error_message"`
	StartedAt    *time.Time      `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
}

var (
	ErrInvalidAction       = lifecycle.NewFieldError("action_id", "invalid_action_id")
	ErrInvalidEntity       = lifecycle.NewFieldError("entity_id", "invalid_entity")
	ErrInvalidTriggerEvent = lifecycle.NewFieldError("trigger_event", "invalid_trigger_event")
	ErrInvalidExecutionKey = lifecycle.NewFieldError("execution_key", "invalid_execution_key")
	ErrInvalidStatus       = lifecycle.NewFieldError("status", "invalid_status")
	ErrInvalidTransition   = lifecycle.NewFieldError("status", "invalid_status_transition")
)
