package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/pkg/db/pagination"
)

type Service interface {
	List(ctx context.Context, req ListRequest) (pagination.Envelope[*KbArticle], error)
	Create(ctx context.Context, tenantID uuid.UUID, req CreateRequest, actor string) (*KbArticle, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*KbArticle, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateRequest, actor string) (*KbArticle, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type ListRequest struct {
	TenantID    *uuid.UUID
	KbSectionID *uuid.UUID
	Page        pagination.Page
}

// CreateRequest derives the slug from the title when Slug is omitted.
type CreateRequest struct {
	KbSectionID uuid.UUID `json:"kb_section_id"`
	Title       string    `json:"title"`
	Slug        *string   `json:"slug"`
	IsPublished *bool     `json:"is_published"`
}

type UpdateRequest struct {
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	IsPublished *bool   `json:"is_published"`
}

var (
	ErrInvalidSection = lifecycle.NewFieldError("kb_section_id", "invalid_kb_section_id")
	ErrInvalidTitle   = lifecycle.NewFieldError("title", "invalid_title")
	ErrInvalidSlug    = lifecycle.NewFieldError("slug", "invalid_slug")
)
