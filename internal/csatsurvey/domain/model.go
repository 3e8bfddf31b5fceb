package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"gorm.io/datatypes"
)

// CsatSurvey holds the rating scale and question template sent after a
// ticket is solved.
type CsatSurvey struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID      `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:ux_csat_survey_tenant_name,priority:1"`
	Name      string         `json:"name" gorm:"size:255;not null;uniqueIndex:ux_csat_survey_tenant_name,priority:2"`
	IsActive  bool           `json:"is_active" gorm:"not null"`
	Config    datatypes.JSON `json:"config" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	CreatedBy string         `json:"created_by" gorm:"size:100"`
	UpdatedBy string         `json:"updated_by" gorm:"size:100"`
}

func (CsatSurvey) TableName() string { return "csat_survey" }

func (s *CsatSurvey) Snapshot() map[string]any {
	return map[string]any{
		"id":         s.ID.String(),
		"tenant_id":  s.TenantID.String(),
		"name":       s.Name,
		"is_active":  s.IsActive,
		"config":     lifecycle.JSON(s.Config),
		"created_at": lifecycle.Time(s.CreatedAt),
		"updated_at": lifecycle.Time(s.UpdatedAt),
		"created_by": s.CreatedBy,
		"updated_by": s.UpdatedBy,
	}
}
