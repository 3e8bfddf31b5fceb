package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"gorm.io/datatypes"
)

// SupportView is a saved ticket query. FilterDefinition is required;
// SortDefinition is optional.
type SupportView struct {
	ID               uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID         uuid.UUID      `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:ux_support_view_tenant_name,priority:1"`
	Name             string         `json:"name" gorm:"size:255;not null;uniqueIndex:ux_support_view_tenant_name,priority:2"`
	Description      *string        `json:"description" gorm:"size:500"`
	IsActive         bool           `json:"is_active" gorm:"not null"`
	FilterDefinition datatypes.JSON `json:"filter_definition" gorm:"type:jsonb;not null"`
	SortDefinition   datatypes.JSON `json:"sort_definition" gorm:"type:jsonb"`
	CreatedAt        time.Time      `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt        time.Time      `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	CreatedBy        string         `json:"created_by" gorm:"size:100"`
	UpdatedBy        string         `json:"updated_by" gorm:"size:100"`
}

func (SupportView) TableName() string { return "support_view" }

func (v *SupportView) Snapshot() map[string]any {
	return map[string]any{
		"id":                v.ID.String(),
		"tenant_id":         v.TenantID.String(),
		"name":              v.Name,
		"description":       lifecycle.StringPtr(v.Description),
		"is_active":         v.IsActive,
		"filter_definition": lifecycle.JSON(v.FilterDefinition),
		"sort_definition":   lifecycle.JSON(v.SortDefinition),
		"created_at":        lifecycle.Time(v.CreatedAt),
		"updated_at":        lifecycle.Time(v.UpdatedAt),
		"created_by":        v.CreatedBy,
		"updated_by":        v.UpdatedBy,
	}
}
