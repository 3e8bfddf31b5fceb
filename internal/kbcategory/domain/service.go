package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/pkg/db/pagination"
)

type Service interface {
	List(ctx context.Context, req ListRequest) (pagination.Envelope[*KbCategory], error)
	Create(ctx context.Context, tenantID uuid.UUID, req CreateRequest, actor string) (*KbCategory, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*KbCategory, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateRequest, actor string) (*KbCategory, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type ListRequest struct {
	TenantID *uuid.UUID
	Page     pagination.Page
}

type CreateRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type UpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

var ErrInvalidName = lifecycle.NewFieldError("name", "invalid_name")
