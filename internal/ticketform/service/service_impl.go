package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/internal/ticketform/domain"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"github.com/smallbiznis/crm/pkg/repository"
)

type form = domain.TicketForm

var (
	fieldName = lifecycle.Field[form, string]{
		Name: "name",
		Get:  func(f *form) string { return f.Name },
		Set:  func(f *form, v string) { f.Name = v },
	}
	fieldDescription = lifecycle.Field[form, *string]{
		Name:  "description",
		Get:   func(f *form) *string { return f.Description },
		Set:   func(f *form, v *string) { f.Description = v },
		Equal: lifecycle.PtrEqual[string],
	}
	fieldIsActive = lifecycle.Field[form, bool]{
		Name: "is_active",
		Get:  func(f *form) bool { return f.IsActive },
		Set:  func(f *form, v bool) { f.IsActive = v },
	}
)

type Service struct {
	engine *lifecycle.Engine[form]
}

func New(deps lifecycle.Deps) domain.Service {
	return &Service{engine: lifecycle.New(deps, lifecycle.Kind[form]{
		Name:     "ticket_form",
		Order:    "created_at desc",
		ID:       func(f *form) uuid.UUID { return f.ID },
		Snapshot: (*form).Snapshot,
		Touch: lifecycle.Touch(
			func(f *form) *time.Time { return &f.UpdatedAt },
			func(f *form) *string { return &f.UpdatedBy },
		),
	})}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (pagination.Envelope[*form], error) {
	return s.engine.List(ctx, req.TenantID, req.Page, repository.EqPtr("is_active", req.IsActive))
}

func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req domain.CreateRequest, actor string) (*form, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := s.engine.Now()
	return s.engine.Create(ctx, tenantID, &form{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        name,
		Description: req.Description,
		IsActive:    lifecycle.ValueOr(req.IsActive, true),
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   actor,
		UpdatedBy:   actor,
	})
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*form, error) {
	return s.engine.Get(ctx, tenantID, repository.ByID(id))
}

func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req domain.UpdateRequest, actor string) (*form, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		req.Name = &name
	}
	return s.engine.Update(ctx, tenantID, []repository.Scope{repository.ByID(id)}, []lifecycle.Change[form]{
		lifecycle.Set(fieldName, req.Name),
		lifecycle.SetNullable(fieldDescription, req.Description),
		lifecycle.Set(fieldIsActive, req.IsActive),
	}, actor)
}

func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.engine.Delete(ctx, tenantID, repository.ByID(id))
}
