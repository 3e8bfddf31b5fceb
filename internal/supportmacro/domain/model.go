package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"gorm.io/datatypes"
)

// SupportMacro is a named, reusable list of ticket actions.
type SupportMacro struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID      `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:ux_support_macro_tenant_name,priority:1"`
	Name        string         `json:"name" gorm:"size:255;not null;uniqueIndex:ux_support_macro_tenant_name,priority:2"`
	Description *string        `json:"description" gorm:"size:500"`
	IsActive    bool           `json:"is_active" gorm:"not null"`
	Actions     datatypes.JSON `json:"actions" gorm:"type:jsonb;not null"`
	CreatedAt   time.Time      `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	CreatedBy   string         `json:"created_by" gorm:"size:100"`
	UpdatedBy   string         `json:"updated_by" gorm:"size:100"`
}

func (SupportMacro) TableName() string { return "support_macro" }

func (m *SupportMacro) Snapshot() map[string]any {
	return map[string]any{
		"id":          m.ID.String(),
		"tenant_id":   m.TenantID.String(),
		"name":        m.Name,
		"description": lifecycle.StringPtr(m.Description),
		"is_active":   m.IsActive,
		"actions":     lifecycle.JSON(m.Actions),
		"created_at":  lifecycle.Time(m.CreatedAt),
		"updated_at":  lifecycle.Time(m.UpdatedAt),
		"created_by":  m.CreatedBy,
		"updated_by":  m.UpdatedBy,
	}
}
