package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"gorm.io/datatypes"
)

// GroupProfile is CRM-local metadata on a mirrored tenant group: queue
// flags, default SLA policy, routing config and AI posture.
type GroupProfile struct {
	ID                 uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID           uuid.UUID      `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:ux_group_profile_unique_by_group,priority:1;index:ix_group_profile_tenant_type,priority:1"`
	GroupID            uuid.UUID      `json:"group_id" gorm:"type:uuid;not null;uniqueIndex:ux_group_profile_unique_by_group,priority:2"`
	ProfileType        string         `json:"profile_type" gorm:"size:50;not null;index:ix_group_profile_tenant_type,priority:2"`
	IsSupportQueue     bool           `json:"is_support_queue" gorm:"not null"`
	IsAssignable       bool           `json:"is_assignable" gorm:"not null"`
	DefaultSLAPolicyID *uuid.UUID     `json:"default_sla_policy_id" gorm:"column:default_sla_policy_id;type:uuid"`
	RoutingConfig      datatypes.JSON `json:"routing_config" gorm:"type:jsonb"`
	AIWorkModeDefault  string         `json:"ai_work_mode_default" gorm:"column:ai_work_mode_default;size:50;not null"`
	BusinessHoursID    *uuid.UUID     `json:"business_hours_id" gorm:"type:uuid"`
	CreatedAt          time.Time      `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt          time.Time      `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	CreatedBy          string         `json:"created_by" gorm:"size:100"`
	UpdatedBy          string         `json:"updated_by" gorm:"size:100"`
}

func (GroupProfile) TableName() string { return "group_profile" }

func (p *GroupProfile) Snapshot() map[string]any {
	return map[string]any{
		"id":                    p.ID.String(),
		"tenant_id":             p.TenantID.String(),
		"group_id":              p.GroupID.String(),
		"profile_type":          p.ProfileType,
		"is_support_queue":      p.IsSupportQueue,
		"is_assignable":         p.IsAssignable,
		"default_sla_policy_id": lifecycle.UUIDPtr(p.DefaultSLAPolicyID),
		"routing_config":        lifecycle.JSON(p.RoutingConfig),
		"ai_work_mode_default":  p.AIWorkModeDefault,
		"business_hours_id":     lifecycle.UUIDPtr(p.BusinessHoursID),
		"created_at":            lifecycle.Time(p.CreatedAt),
		"updated_at":            lifecycle.Time(p.UpdatedAt),
		"created_by":            p.CreatedBy,
		"updated_by":            p.UpdatedBy,
	}
}

const (
	ProfileTypeSupportQueue = "support_queue"
	ProfileTypeSalesTeam    = "sales_team"
	ProfileTypeSecurityOnly = "security_only"
	ProfileTypeGeneric      = "generic"

	AIWorkModeHumanOnly   = "human_only"
	AIWorkModeAIAllowed   = "ai_allowed"
	AIWorkModeAIPreferred = "ai_preferred"
	AIWorkModeAIOnly      = "ai_only"
)

func ValidProfileType(v string) bool {
	switch v {
	case ProfileTypeSupportQueue, ProfileTypeSalesTeam, ProfileTypeSecurityOnly, ProfileTypeGeneric:
		return true
	}
	return false
}

func ValidAIWorkMode(v string) bool {
	switch v {
	case AIWorkModeHumanOnly, AIWorkModeAIAllowed, AIWorkModeAIPreferred, AIWorkModeAIOnly:
		return true
	}
	return false
}
