package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"gorm.io/datatypes"
)

type Service interface {
	List(ctx context.Context, req ListRequest) (pagination.Envelope[*SupportView], error)
	Create(ctx context.Context, tenantID uuid.UUID, req CreateRequest, actor string) (*SupportView, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*SupportView, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateRequest, actor string) (*SupportView, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type ListRequest struct {
	TenantID *uuid.UUID
	IsActive *bool
	Page     pagination.Page
}

type CreateRequest struct {
	Name             string          `json:"name"`
	Description      *string         `json:"description"`
	IsActive         *bool           `json:"is_active"`
	FilterDefinition *datatypes.JSON `json:"filter_definition"`
	SortDefinition   *datatypes.JSON `json:"sort_definition"`
}

type UpdateRequest struct {
	Name             *string         `json:"name"`
	Description      *string         `json:"description"`
	IsActive         *bool           `json:"is_active"`
	FilterDefinition *datatypes.JSON `json:"filter_definition"`
	SortDefinition   *datatypes.JSON `json:"sort_definition"`
}

var (
	ErrInvalidName             = lifecycle.NewFieldError("name", "invalid_name")
	ErrInvalidFilterDefinition = lifecycle.NewFieldError("filter_definition", "invalid_filter_definition")
)
