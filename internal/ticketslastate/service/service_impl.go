package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/internal/ticketslastate/domain"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"github.com/smallbiznis/crm/pkg/repository"
)

type state = domain.TicketSlaState

func dueField(name string, ref func(*state) **time.Time) lifecycle.Field[state, *time.Time] {
	return lifecycle.Field[state, *time.Time]{
		Name:  name,
		Get:   func(s *state) *time.Time { return *ref(s) },
		Set:   func(s *state, v *time.Time) { *ref(s) = v },
		Equal: lifecycle.TimePtrEqual,
	}
}

func flagField(name string, ref func(*state) *bool) lifecycle.Field[state, bool] {
	return lifecycle.Field[state, bool]{
		Name: name,
		Get:  func(s *state) bool { return *ref(s) },
		Set:  func(s *state, v bool) { *ref(s) = v },
	}
}

var (
	fieldSLAPolicyID = lifecycle.Field[state, *uuid.UUID]{
		Name:  "sla_policy_id",
		Get:   func(s *state) *uuid.UUID { return s.SLAPolicyID },
		Set:   func(s *state, v *uuid.UUID) { s.SLAPolicyID = v },
		Equal: lifecycle.UUIDPtrEqual,
	}
	fieldFirstResponseDueAt    = dueField("first_response_due_at", func(s *state) **time.Time { return &s.FirstResponseDueAt })
	fieldNextResponseDueAt     = dueField("next_response_due_at", func(s *state) **time.Time { return &s.NextResponseDueAt })
	fieldResolutionDueAt       = dueField("resolution_due_at", func(s *state) **time.Time { return &s.ResolutionDueAt })
	fieldFirstResponseBreached = flagField("first_response_breached", func(s *state) *bool { return &s.FirstResponseBreached })
	fieldNextResponseBreached  = flagField("next_response_breached", func(s *state) *bool { return &s.NextResponseBreached })
	fieldResolutionBreached    = flagField("resolution_breached", func(s *state) *bool { return &s.ResolutionBreached })
	fieldLastComputedAt        = lifecycle.Field[state, time.Time]{
		Name:  "last_computed_at",
		Get:   func(s *state) time.Time { return s.LastComputedAt },
		Set:   func(s *state, v time.Time) { s.LastComputedAt = v },
		Equal: lifecycle.TimeEqual,
	}
)

type Service struct {
	engine *lifecycle.Engine[state]
}

func New(deps lifecycle.Deps) domain.Service {
	return &Service{engine: lifecycle.New(deps, lifecycle.Kind[state]{
		Name:     "ticket_sla_state",
		Order:    "last_computed_at desc",
		ID:       func(s *state) uuid.UUID { return s.ID },
		Snapshot: (*state).Snapshot,
		Headers: func(s *state) map[string]string {
			return map[string]string{"ticket_id": s.TicketID.String()}
		},
		Touch: lifecycle.Touch(
			func(s *state) *time.Time { return &s.UpdatedAt },
			func(s *state) *string { return &s.UpdatedBy },
		),
	})}
}

func byTicket(ticketID uuid.UUID) repository.Scope {
	return repository.Eq("ticket_id", ticketID)
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (pagination.Envelope[*state], error) {
	return s.engine.List(ctx, req.TenantID, req.Page,
		repository.EqPtr("ticket_id", req.TicketID),
		repository.EqPtr("sla_policy_id", req.SLAPolicyID),
	)
}

func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req domain.CreateRequest, actor string) (*state, error) {
	if req.TicketID == uuid.Nil {
		return nil, domain.ErrInvalidTicket
	}

	now := s.engine.Now()
	return s.engine.Create(ctx, tenantID, &state{
		ID:                    uuid.New(),
		TenantID:              tenantID,
		TicketID:              req.TicketID,
		SLAPolicyID:           req.SLAPolicyID,
		FirstResponseDueAt:    utc(req.FirstResponseDueAt),
		NextResponseDueAt:     utc(req.NextResponseDueAt),
		ResolutionDueAt:       utc(req.ResolutionDueAt),
		FirstResponseBreached: lifecycle.ValueOr(req.FirstResponseBreached, false),
		NextResponseBreached:  lifecycle.ValueOr(req.NextResponseBreached, false),
		ResolutionBreached:    lifecycle.ValueOr(req.ResolutionBreached, false),
		LastComputedAt:        lifecycle.ValueOr(utc(req.LastComputedAt), now),
		CreatedAt:             now,
		UpdatedAt:             now,
		CreatedBy:             actor,
		UpdatedBy:             actor,
	})
}

func (s *Service) Get(ctx context.Context, tenantID, ticketID uuid.UUID) (*state, error) {
	return s.engine.Get(ctx, tenantID, byTicket(ticketID))
}

func (s *Service) Update(ctx context.Context, tenantID, ticketID uuid.UUID, req domain.UpdateRequest, actor string) (*state, error) {
	return s.engine.Update(ctx, tenantID, []repository.Scope{byTicket(ticketID)}, []lifecycle.Change[state]{
		lifecycle.SetNullable(fieldSLAPolicyID, req.SLAPolicyID),
		lifecycle.SetNullable(fieldFirstResponseDueAt, utc(req.FirstResponseDueAt)),
		lifecycle.SetNullable(fieldNextResponseDueAt, utc(req.NextResponseDueAt)),
		lifecycle.SetNullable(fieldResolutionDueAt, utc(req.ResolutionDueAt)),
		lifecycle.Set(fieldFirstResponseBreached, req.FirstResponseBreached),
		lifecycle.Set(fieldNextResponseBreached, req.NextResponseBreached),
		lifecycle.Set(fieldResolutionBreached, req.ResolutionBreached),
		lifecycle.Set(fieldLastComputedAt, utc(req.LastComputedAt)),
	}, actor)
}

func (s *Service) Delete(ctx context.Context, tenantID, ticketID uuid.UUID) error {
	return s.engine.Delete(ctx, tenantID, byTicket(ticketID))
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
