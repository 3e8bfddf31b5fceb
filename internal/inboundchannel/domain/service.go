package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"gorm.io/datatypes"
)

type Service interface {
	List(ctx context.Context, req ListRequest) (pagination.Envelope[*InboundChannel], error)
	Create(ctx context.Context, tenantID uuid.UUID, req CreateRequest, actor string) (*InboundChannel, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*InboundChannel, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateRequest, actor string) (*InboundChannel, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type ListRequest struct {
	TenantID    *uuid.UUID
	ChannelType *string
	IsActive    *bool
	Page        pagination.Page
}

type CreateRequest struct {
	ChannelType string          `json:"channel_type"`
	Name        string          `json:"name"`
	ExternalRef *string         `json:"external_ref"`
	Config      *datatypes.JSON `json:"config"`
	IsActive    *bool           `json:"is_active"`
}

type UpdateRequest struct {
	ChannelType *string         `json:"channel_type"`
	Name        *string         `json:"name"`
	ExternalRef *string         `json:"external_ref"`
	Config      *datatypes.JSON `json:"config"`
	IsActive    *bool           `json:"is_active"`
}

var (
	ErrInvalidChannelType = lifecycle.NewFieldError("channel_type", "invalid_channel_type")
	ErrInvalidName        = lifecycle.NewFieldError("name", "invalid_name")
)
