package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/pkg/db/pagination"
)

// Service reads and writes SLA state by ticket id.
type Service interface {
	List(ctx context.Context, req ListRequest) (pagination.Envelope[*TicketSlaState], error)
	Create(ctx context.Context, tenantID uuid.UUID, req CreateRequest, actor string) (*TicketSlaState, error)
	Get(ctx context.Context, tenantID, ticketID uuid.UUID) (*TicketSlaState, error)
	Update(ctx context.Context, tenantID, ticketID uuid.UUID, req UpdateRequest, actor string) (*TicketSlaState, error)
	Delete(ctx context.Context, tenantID, ticketID uuid.UUID) error
}

type ListRequest struct {
	TenantID    *uuid.UUID
	TicketID    *uuid.UUID
	SLAPolicyID *uuid.UUID
	Page        pagination.Page
}

// CreateRequest defaults breach flags to false and LastComputedAt to now.
type CreateRequest struct {
	TicketID              uuid.UUID  `json:"ticket_id"`
	SLAPolicyID           *uuid.UUID `json:"sla_policy_id"`
	FirstResponseDueAt    *time.Time `json:"first_response_due_at"`
	NextResponseDueAt     *time.Time `json:"next_response_due_at"`
	ResolutionDueAt       *time.Time `json:"resolution_due_at"`
	FirstResponseBreached *bool      `json:"first_response_breached"`
	NextResponseBreached  *bool      `json:"next_response_breached"`
	ResolutionBreached    *bool      `json:"resolution_breached"`
	LastComputedAt        *time.Time `json:"last_computed_at"`
}

type UpdateRequest struct {
	SLAPolicyID           *uuid.UUID `json:"sla_policy_id"`
	FirstResponseDueAt    *time.Time `json:"first_response_due_at"`
	NextResponseDueAt     *time.Time `json:"next_response_due_at"`
	ResolutionDueAt       *time.Time `json:"resolution_due_at"`
	FirstResponseBreached *bool      `json:"first_response_breached"`
	NextResponseBreached  *bool      `json:"next_response_breached"`
	ResolutionBreached    *bool      `json:"resolution_breached"`
	LastComputedAt        *time.Time `json:"last_computed_at"`
}

var ErrInvalidTicket = lifecycle.NewFieldError("ticket_id", "invalid_ticket_id")
