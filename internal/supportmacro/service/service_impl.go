package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/internal/supportmacro/domain"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"github.com/smallbiznis/crm/pkg/repository"
	"gorm.io/datatypes"
)

type macro = domain.SupportMacro

var (
	fieldName = lifecycle.Field[macro, string]{
		Name: "name",
		Get:  func(m *macro) string { return m.Name },
		Set:  func(m *macro, v string) { m.Name = v },
	}
	fieldDescription = lifecycle.Field[macro, *string]{
		Name:  "description",
		Get:   func(m *macro) *string { return m.Description },
		Set:   func(m *macro, v *string) { m.Description = v },
		Equal: lifecycle.PtrEqual[string],
	}
	fieldIsActive = lifecycle.Field[macro, bool]{
		Name: "is_active",
		Get:  func(m *macro) bool { return m.IsActive },
		Set:  func(m *macro, v bool) { m.IsActive = v },
	}
	fieldActions = lifecycle.Field[macro, datatypes.JSON]{
		Name:  "actions",
		Get:   func(m *macro) datatypes.JSON { return m.Actions },
		Set:   func(m *macro, v datatypes.JSON) { m.Actions = v },
		Equal: lifecycle.JSONEqual,
	}
)

type Service struct {
	engine *lifecycle.Engine[macro]
}

func New(deps lifecycle.Deps) domain.Service {
	return &Service{engine: lifecycle.New(deps, lifecycle.Kind[macro]{
		Name:     "support_macro",
		Order:    "created_at desc",
		ID:       func(m *macro) uuid.UUID { return m.ID },
		Snapshot: (*macro).Snapshot,
		Touch: lifecycle.Touch(
			func(m *macro) *time.Time { return &m.UpdatedAt },
			func(m *macro) *string { return &m.UpdatedBy },
		),
	})}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (pagination.Envelope[*macro], error) {
	return s.engine.List(ctx, req.TenantID, req.Page, repository.EqPtr("is_active", req.IsActive))
}

func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req domain.CreateRequest, actor string) (*macro, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Actions == nil || !lifecycle.IsJSONArray(*req.Actions) {
		return nil, domain.ErrInvalidActions
	}

	now := s.engine.Now()
	return s.engine.Create(ctx, tenantID, &macro{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        name,
		Description: req.Description,
		IsActive:    lifecycle.ValueOr(req.IsActive, true),
		Actions:     *req.Actions,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   actor,
		UpdatedBy:   actor,
	})
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*macro, error) {
	return s.engine.Get(ctx, tenantID, repository.ByID(id))
}

func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req domain.UpdateRequest, actor string) (*macro, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		req.Name = &name
	}
	if req.Actions != nil && !lifecycle.IsJSONArray(*req.Actions) {
		return nil, domain.ErrInvalidActions
	}
	return s.engine.Update(ctx, tenantID, []repository.Scope{repository.ByID(id)}, []lifecycle.Change[macro]{
		lifecycle.Set(fieldName, req.Name),
		lifecycle.SetNullable(fieldDescription, req.Description),
		lifecycle.Set(fieldIsActive, req.IsActive),
		lifecycle.Set(fieldActions, req.Actions),
	}, actor)
}

func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.engine.Delete(ctx, tenantID, repository.ByID(id))
}
