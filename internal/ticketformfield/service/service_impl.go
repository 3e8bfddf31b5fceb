package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/internal/ticketformfield/domain"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"github.com/smallbiznis/crm/pkg/repository"
)

type formField = domain.TicketFormField

var fieldDisplayOrder = lifecycle.Field[formField, int]{
	Name: "display_order",
	Get:  func(f *formField) int { return f.DisplayOrder },
	Set:  func(f *formField, v int) { f.DisplayOrder = v },
}

type Service struct {
	engine *lifecycle.Engine[formField]
}

func New(deps lifecycle.Deps) domain.Service {
	return &Service{engine: lifecycle.New(deps, lifecycle.Kind[formField]{
		Name:     "ticket_form_field",
		Order:    "display_order asc",
		ID:       func(f *formField) uuid.UUID { return f.ID },
		Snapshot: (*formField).Snapshot,
	})}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (pagination.Envelope[*formField], error) {
	return s.engine.List(ctx, req.TenantID, req.Page,
		repository.EqPtr("ticket_form_id", req.TicketFormID),
		repository.EqPtr("ticket_field_def_id", req.TicketFieldDefID),
	)
}

func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req domain.CreateRequest, actor string) (*formField, error) {
	switch {
	case req.TicketFormID == uuid.Nil:
		return nil, domain.ErrInvalidForm
	case req.TicketFieldDefID == uuid.Nil:
		return nil, domain.ErrInvalidFieldDef
	case req.DisplayOrder == nil || *req.DisplayOrder < 0:
		return nil, domain.ErrInvalidDisplayOrder
	}

	return s.engine.Create(ctx, tenantID, &formField{
		ID:               uuid.New(),
		TenantID:         tenantID,
		TicketFormID:     req.TicketFormID,
		TicketFieldDefID: req.TicketFieldDefID,
		DisplayOrder:     *req.DisplayOrder,
		CreatedAt:        s.engine.Now(),
		CreatedBy:        actor,
	})
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*formField, error) {
	return s.engine.Get(ctx, tenantID, repository.ByID(id))
}

func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req domain.UpdateRequest, actor string) (*formField, error) {
	if req.DisplayOrder != nil && *req.DisplayOrder < 0 {
		return nil, domain.ErrInvalidDisplayOrder
	}
	return s.engine.Update(ctx, tenantID, []repository.Scope{repository.ByID(id)}, []lifecycle.Change[formField]{
		lifecycle.Set(fieldDisplayOrder, req.DisplayOrder),
	}, actor)
}

func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.engine.Delete(ctx, tenantID, repository.ByID(id))
}
