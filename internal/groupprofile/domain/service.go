package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"gorm.io/datatypes"
)

type Service interface {
	List(ctx context.Context, req ListRequest) (pagination.Envelope[*GroupProfile], error)
	Create(ctx context.Context, tenantID uuid.UUID, req CreateRequest, actor string) (*GroupProfile, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*GroupProfile, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateRequest, actor string) (*GroupProfile, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// ListRequest filters are exact matches. A nil TenantID lists across tenants.
type ListRequest struct {
	TenantID       *uuid.UUID
	ProfileType    *string
	IsSupportQueue *bool
	Page           pagination.Page
}

type CreateRequest struct {
	GroupID            uuid.UUID       `json:"group_id"`
	ProfileType        *string         `json:"profile_type"`
	IsSupportQueue     *bool           `json:"is_support_queue"`
	IsAssignable       *bool           `json:"is_assignable"`
	DefaultSLAPolicyID *uuid.UUID      `json:"default_sla_policy_id"`
	RoutingConfig      *datatypes.JSON `json:"routing_config"`
	AIWorkModeDefault  *string         `json:"ai_work_mode_default"`
	BusinessHoursID    *uuid.UUID      `json:"business_hours_id"`
}

// UpdateRequest leaves nil fields untouched. group_id is fixed at creation.
type UpdateRequest struct {
	ProfileType        *string         `json:"profile_type"`
	IsSupportQueue     *bool           `json:"is_support_queue"`
	IsAssignable       *bool           `json:"is_assignable"`
	DefaultSLAPolicyID *uuid.UUID      `json:"default_sla_policy_id"`
	RoutingConfig      *datatypes.JSON `json:"routing_config"`
	AIWorkModeDefault  *string         `json:"ai_work_mode_default"`
	BusinessHoursID    *uuid.UUID      `json:"business_hours_id"`
}

var (
	ErrInvalidGroupID     = lifecycle.NewFieldError("group_id", "invalid_group_id")
	ErrInvalidProfileType = lifecycle.NewFieldError("profile_type", "invalid_profile_type")
	ErrInvalidAIWorkMode  = lifecycle.NewFieldError("ai_work_mode_default", "invalid_ai_work_mode_default")
)
