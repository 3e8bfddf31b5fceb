package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/pkg/db/pagination"
)

type Service interface {
	List(ctx context.Context, req ListRequest) (pagination.Envelope[*TicketFormField], error)
	Create(ctx context.Context, tenantID uuid.UUID, req CreateRequest, actor string) (*TicketFormField, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*TicketFormField, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateRequest, actor string) (*TicketFormField, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type ListRequest struct {
	TenantID         *uuid.UUID
	TicketFormID     *uuid.UUID
	TicketFieldDefID *uuid.UUID
	Page             pagination.Page
}

type CreateRequest struct {
	TicketFormID     uuid.UUID `json:"ticket_form_id"`
	TicketFieldDefID uuid.UUID `json:"ticket_field_def_id"`
	DisplayOrder     *int      `json:"display_order"`
}

// UpdateRequest only moves the field on its form.
type UpdateRequest struct {
	DisplayOrder *int `json:"display_order"`
}

var (
	ErrInvalidForm         = lifecycle.NewFieldError("ticket_form_id", "invalid_ticket_form_id")
	ErrInvalidFieldDef     = lifecycle.NewFieldError("ticket_field_def_id", "invalid_ticket_field_def_id")
	ErrInvalidDisplayOrder = lifecycle.NewFieldError("display_order", "invalid_display_order")
)
