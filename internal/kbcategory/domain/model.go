package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
)

type KbCategory struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:ux_kb_category_tenant_name,priority:1"`
	Name        string    `json:"name" gorm:"size:255;not null;uniqueIndex:ux_kb_category_tenant_name,priority:2"`
	Description *string   `json:"description" gorm:"size:500"`
	IsActive    bool      `json:"is_active" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	CreatedBy   string    `json:"created_by" gorm:"size:100"`
	UpdatedBy   string    `json:"updated_by" gorm:"size:100"`
}

func (KbCategory) TableName() string { return "kb_category" }

func (c *KbCategory) Snapshot() map[string]any {
	return map[string]any{
		"id":          c.ID.String(),
		"tenant_id":   c.TenantID.String(),
		"name":        c.Name,
		"description": lifecycle.StringPtr(c.Description),
		"is_active":   c.IsActive,
		"created_at":  lifecycle.Time(c.CreatedAt),
		"updated_at":  lifecycle.Time(c.UpdatedAt),
		"created_by":  c.CreatedBy,
		"updated_by":  c.UpdatedBy,
	}
}
