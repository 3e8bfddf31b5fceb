package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
)

// TicketSlaState stores deadlines and breach flags computed elsewhere for
// one ticket. It is addressed by ticket rather than by its own id.
type TicketSlaState struct {
	ID                    uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID              uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:ux_ticket_sla_state_unique,priority:1"`
	TicketID              uuid.UUID  `json:"ticket_id" gorm:"type:uuid;not null;uniqueIndex:ux_ticket_sla_state_unique,priority:2"`
	SLAPolicyID           *uuid.UUID `json:"sla_policy_id" gorm:"column:sla_policy_id;type:uuid;index"`
	FirstResponseDueAt    *time.Time `json:"first_response_due_at"`
	NextResponseDueAt     *time.Time `json:"next_response_due_at"`
	ResolutionDueAt       *time.Time `json:"resolution_due_at"`
	FirstResponseBreached bool       `json:"first_response_breached" gorm:"not null"`
	NextResponseBreached  bool       `json:"next_response_breached" gorm:"not null"`
	ResolutionBreached    bool       `json:"resolution_breached" gorm:"not null"`
	LastComputedAt        time.Time  `json:"last_computed_at" gorm:"not null"`
	CreatedAt             time.Time  `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt             time.Time  `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	CreatedBy             string     `json:"created_by" gorm:"size:100"`
	UpdatedBy             string     `json:"updated_by" gorm:"size:100"`
}

func (TicketSlaState) TableName() string { return "ticket_sla_state" }

func (s *TicketSlaState) Snapshot() map[string]any {
	return map[string]any{
		"id":                      s.ID.String(),
		"tenant_id":               s.TenantID.String(),
		"ticket_id":               s.TicketID.String(),
		"sla_policy_id":           lifecycle.UUIDPtr(s.SLAPolicyID),
		"first_response_due_at":   lifecycle.TimePtr(s.FirstResponseDueAt),
		"next_response_due_at":    lifecycle.TimePtr(s.NextResponseDueAt),
		"resolution_due_at":       lifecycle.TimePtr(s.ResolutionDueAt),
		"first_response_breached": s.FirstResponseBreached,
		"next_response_breached":  s.NextResponseBreached,
		"resolution_breached":     s.ResolutionBreached,
		"last_computed_at":        lifecycle.Time(s.LastComputedAt),
		"created_at":              lifecycle.Time(s.CreatedAt),
		"updated_at":              lifecycle.Time(s.UpdatedAt),
		"created_by":              s.CreatedBy,
		"updated_by":              s.UpdatedBy,
	}
}
