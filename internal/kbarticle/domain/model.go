package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
)

type KbArticle struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:ux_kb_article_tenant_slug,priority:1;index:ix_kb_article_tenant_section,priority:1"`
	KbSectionID uuid.UUID `json:"kb_section_id" gorm:"type:uuid;not null;index:ix_kb_article_tenant_section,priority:2"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Slug        string    `json:"slug" gorm:"size:255;not null"`
	// LowerSlug is the lowercased slug used for per-tenant uniqueness.
	LowerSlug   string    `json:"lower_slug" gorm:"size:255;not null;uniqueIndex:ux_kb_article_tenant_slug,priority:2"`
	IsPublished bool      `json:"is_published" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	CreatedBy   string    `json:"created_by" gorm:"size:100"`
	UpdatedBy   string    `json:"updated_by" gorm:"size:100"`
}

func (KbArticle) TableName() string { return "kb_article" }

func (a *KbArticle) Snapshot() map[string]any {
	return map[string]any{
		"id":            a.ID.String(),
		"tenant_id":     a.TenantID.String(),
		"kb_section_id": a.KbSectionID.String(),
		"title":         a.Title,
		"slug":          a.Slug,
		"lower_slug":    a.LowerSlug,
		"is_published":  a.IsPublished,
		"created_at":    lifecycle.Time(a.CreatedAt),
		"updated_at":    lifecycle.Time(a.UpdatedAt),
		"created_by":    a.CreatedBy,
		"updated_by":    a.UpdatedBy,
	}
}
