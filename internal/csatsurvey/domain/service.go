package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"gorm.io/datatypes"
)

type Service interface {
	List(ctx context.Context, req ListRequest) (pagination.Envelope[*CsatSurvey], error)
	Create(ctx context.Context, tenantID uuid.UUID, req CreateRequest, actor string) (*CsatSurvey, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*CsatSurvey, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateRequest, actor string) (*CsatSurvey, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type ListRequest struct {
	TenantID *uuid.UUID
	IsActive *bool
	Page     pagination.Page
}

type CreateRequest struct {
	Name     string          `json:"name"`
	IsActive *bool           `json:"is_active"`
	Config   *datatypes.JSON `json:"config"`
}

type UpdateRequest struct {
	Name     *string         `json:"name"`
	IsActive *bool           `json:"is_active"`
	Config   *datatypes.JSON `json:"config"`
}

var ErrInvalidName = lifecycle.NewFieldError("name", "invalid_name")
