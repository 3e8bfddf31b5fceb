package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
)

// StageHistory is one append-only record of an entity moving between
// pipeline stages.
type StageHistory struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID        uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index:ix_stage_history_entity,priority:1;index:ix_stage_history_pipeline,priority:1"`
	EntityType      string     `json:"entity_type" gorm:"size:50;not null;index:ix_stage_history_entity,priority:2"`
	EntityID        uuid.UUID  `json:"entity_id" gorm:"type:uuid;not null;index:ix_stage_history_entity,priority:3"`
	PipelineID      *uuid.UUID `json:"pipeline_id" gorm:"type:uuid;index:ix_stage_history_pipeline,priority:2"`
	FromStageID     *uuid.UUID `json:"from_stage_id" gorm:"type:uuid"`
	ToStageID       *uuid.UUID `json:"to_stage_id" gorm:"type:uuid"`
	ChangedAt       time.Time  `json:"changed_at" gorm:"not null"`
	ChangedByUserID *uuid.UUID `json:"changed_by_user_id" gorm:"type:uuid"`
	Source          *string    `json:"source" gorm:"size:50"`
}

func (StageHistory) TableName() string { return "stage_history" }

func (h *StageHistory) Snapshot() map[string]any {
	return map[string]any{
		"id":                 h.ID.String(),
		"tenant_id":          h.TenantID.String(),
		"entity_type":        h.EntityType,
		"entity_id":          h.EntityID.String(),
		"pipeline_id":        lifecycle.UUIDPtr(h.PipelineID),
		"from_stage_id":      lifecycle.UUIDPtr(h.FromStageID),
		"to_stage_id":        lifecycle.UUIDPtr(h.ToStageID),
		"changed_at":         lifecycle.Time(h.ChangedAt),
		"changed_by_user_id": lifecycle.UUIDPtr(h.ChangedByUserID),
		"source":             lifecycle.StringPtr(h.Source),
	}
}
