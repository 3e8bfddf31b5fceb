package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/pkg/db/pagination"
)

// Service records and lists stage transitions. Entries are never updated or
// deleted.
type Service interface {
	List(ctx context.Context, req ListRequest) (pagination.Envelope[*StageHistory], error)
	Record(ctx context.Context, tenantID uuid.UUID, req CreateRequest) (*StageHistory, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*StageHistory, error)
}

type ListRequest struct {
	TenantID   *uuid.UUID
	EntityType *string
	EntityID   *uuid.UUID
	PipelineID *uuid.UUID
	Page       pagination.Page
}

type CreateRequest struct {
	EntityType      string     `json:"entity_type"`
	EntityID        uuid.UUID  `json:"entity_id"`
	PipelineID      *uuid.UUID `json:"pipeline_id"`
	FromStageID     *uuid.UUID `json:"from_stage_id"`
	ToStageID       *uuid.UUID `json:"to_stage_id"`
	ChangedAt       *time.Time `json:"changed_at"`
	ChangedByUserID *uuid.UUID `json:"changed_by_user_id"`
	Source          *string    `json:"source"`
}

var (
	ErrInvalidEntityType = lifecycle.NewFieldError("entity_type", "invalid_entity_type")
	ErrInvalidEntityID   = lifecycle.NewFieldError("entity_id", "invalid_entity_id")
	ErrInvalidSource     = lifecycle.NewFieldError("source", "invalid_source")
)
