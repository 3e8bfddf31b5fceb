package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/kbcategory/domain"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"github.com/smallbiznis/crm/pkg/repository"
)

type category = domain.KbCategory

var (
	fieldName = lifecycle.Field[category, string]{
		Name: "name",
		Get:  func(c *category) string { return c.Name },
		Set:  func(c *category, v string) { c.Name = v },
	}
	fieldDescription = lifecycle.Field[category, *string]{
		Name:  "description",
		Get:   func(c *category) *string { return c.Description },
		Set:   func(c *category, v *string) { c.Description = v },
		Equal: lifecycle.PtrEqual[string],
	}
	fieldIsActive = lifecycle.Field[category, bool]{
		Name: "is_active",
		Get:  func(c *category) bool { return c.IsActive },
		Set:  func(c *category, v bool) { c.IsActive = v },
	}
)

type Service struct {
	engine *lifecycle.Engine[category]
}

func New(deps lifecycle.Deps) domain.Service {
	return &Service{engine: lifecycle.New(deps, lifecycle.Kind[category]{
		Name:     "kb_category",
		Order:    "created_at desc",
		ID:       func(c *category) uuid.UUID { return c.ID },
		Snapshot: (*category).Snapshot,
		Touch: lifecycle.Touch(
			func(c *category) *time.Time { return &c.UpdatedAt },
			func(c *category) *string { return &c.UpdatedBy },
		),
	})}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (pagination.Envelope[*category], error) {
	return s.engine.List(ctx, req.TenantID, req.Page)
}

func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req domain.CreateRequest, actor string) (*category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := s.engine.Now()
	return s.engine.Create(ctx, tenantID, &category{
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

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*category, error) {
	return s.engine.Get(ctx, tenantID, repository.ByID(id))
}

func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req domain.UpdateRequest, actor string) (*category, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		req.Name = &name
	}
	return s.engine.Update(ctx, tenantID, []repository.Scope{repository.ByID(id)}, []lifecycle.Change[category]{
		lifecycle.Set(fieldName, req.Name),
		lifecycle.SetNullable(fieldDescription, req.Description),
		lifecycle.Set(fieldIsActive, req.IsActive),
	}, actor)
}

func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.engine.Delete(ctx, tenantID, repository.ByID(id))
}
