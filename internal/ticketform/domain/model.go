package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
)

type TicketForm struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:ux_ticket_form_tenant_name,priority:1"`
	Name        string    `json:"name" gorm:"size:255;not null;uniqueIndex:ux_ticket_form_tenant_name,priority:2"`
	Description *string   `json:"description" gorm:"size:500"`
	IsActive    bool      `json:"is_active" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	CreatedBy   string    `json:"created_by" gorm:"size:100"`
	UpdatedBy   string    `json:"updated_by" gorm:"size:100"`
}

func (TicketForm) TableName() string { return "ticket_form" }

func (f *TicketForm) Snapshot() map[string]any {
	return map[string]any{
		"id":          f.ID.String(),
		"tenant_id":   f.TenantID.String(),
		"name":        f.Name,
		"description": lifecycle.StringPtr(f.Description),
		"is_active":   f.IsActive,
		"created_at":  lifecycle.Time(f.CreatedAt),
		"updated_at":  lifecycle.Time(f.UpdatedAt),
		"created_by":  f.CreatedBy,
		"updated_by":  f.UpdatedBy,
	}
}
