package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
)

// TicketFormField places a field definition on a form. Rows carry no
// updated_at or updated_by.
type TicketFormField struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID         uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:ux_ticket_form_field_def,priority:1;uniqueIndex:ux_ticket_form_field_order,priority:1"`
	TicketFormID     uuid.UUID `json:"ticket_form_id" gorm:"type:uuid;not null;uniqueIndex:ux_ticket_form_field_def,priority:2;uniqueIndex:ux_ticket_form_field_order,priority:2"`
	TicketFieldDefID uuid.UUID `json:"ticket_field_def_id" gorm:"type:uuid;not null;uniqueIndex:ux_ticket_form_field_def,priority:3"`
	DisplayOrder     int       `json:"display_order" gorm:"not null;uniqueIndex:ux_ticket_form_field_order,priority:3"`
	CreatedAt        time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	CreatedBy        string    `json:"created_by" gorm:"size:100"`
}

func (TicketFormField) TableName() string { return "ticket_form_field" }

func (f *TicketFormField) Snapshot() map[string]any {
	return map[string]any{
		"id":                  f.ID.String(),
		"tenant_id":           f.TenantID.String(),
		"ticket_form_id":      f.TicketFormID.String(),
		"ticket_field_def_id": f.TicketFieldDefID.String(),
		"display_order":       f.DisplayOrder,
		"created_at":          lifecycle.Time(f.CreatedAt),
		"created_by":          f.CreatedBy,
	}
}
