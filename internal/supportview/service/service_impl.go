package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/internal/supportview/domain"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"github.com/smallbiznis/crm/pkg/repository"
	"gorm.io/datatypes"
)

type view = domain.SupportView

var (
	fieldName = lifecycle.Field[view, string]{
		Name: "name",
		Get:  func(v *view) string { return v.Name },
		Set:  func(v *view, s string) { v.Name = s },
	}
	fieldDescription = lifecycle.Field[view, *string]{
		Name:  "description",
		Get:   func(v *view) *string { return v.Description },
		Set:   func(v *view, s *string) { v.Description = s },
		Equal: lifecycle.PtrEqual[string],
	}
	fieldIsActive = lifecycle.Field[view, bool]{
		Name: "is_active",
		Get:  func(v *view) bool { return v.IsActive },
		Set:  func(v *view, b bool) { v.IsActive = b },
	}
	fieldFilterDefinition = lifecycle.Field[view, datatypes.JSON]{
		Name:  "filter_definition",
		Get:   func(v *view) datatypes.JSON { return v.FilterDefinition },
		Set:   func(v *view, doc datatypes.JSON) { v.FilterDefinition = doc },
		Equal: lifecycle.JSONEqual,
	}
	fieldSortDefinition = lifecycle.Field[view, datatypes.JSON]{
		Name:  "sort_definition",
		Get:   func(v *view) datatypes.JSON { return v.SortDefinition },
		Set:   func(v *view, doc datatypes.JSON) { v.SortDefinition = doc },
		Equal: lifecycle.JSONEqual,
	}
)

type Service struct {
	engine *lifecycle.Engine[view]
}

func New(deps lifecycle.Deps) domain.Service {
	return &Service{engine: lifecycle.New(deps, lifecycle.Kind[view]{
		Name:     "support_view",
		Order:    "created_at desc",
		ID:       func(v *view) uuid.UUID { return v.ID },
		Snapshot: (*view).Snapshot,
		Touch: lifecycle.Touch(
			func(v *view) *time.Time { return &v.UpdatedAt },
			func(v *view) *string { return &v.UpdatedBy },
		),
	})}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (pagination.Envelope[*view], error) {
	return s.engine.List(ctx, req.TenantID, req.Page, repository.EqPtr("is_active", req.IsActive))
}

func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req domain.CreateRequest, actor string) (*view, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.FilterDefinition == nil || !lifecycle.IsJSONObject(*req.FilterDefinition) {
		return nil, domain.ErrInvalidFilterDefinition
	}

	now := s.engine.Now()
	row := &view{
		ID:               uuid.New(),
		TenantID:         tenantID,
		Name:             name,
		Description:      req.Description,
		IsActive:         lifecycle.ValueOr(req.IsActive, true),
		FilterDefinition: *req.FilterDefinition,
		CreatedAt:        now,
		UpdatedAt:        now,
		CreatedBy:        actor,
		UpdatedBy:        actor,
	}
	if req.SortDefinition != nil {
		row.SortDefinition = *req.SortDefinition
	}
	return s.engine.Create(ctx, tenantID, row)
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*view, error) {
	return s.engine.Get(ctx, tenantID, repository.ByID(id))
}

func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req domain.UpdateRequest, actor string) (*view, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		req.Name = &name
	}
	if req.FilterDefinition != nil && !lifecycle.IsJSONObject(*req.FilterDefinition) {
		return nil, domain.ErrInvalidFilterDefinition
	}
	return s.engine.Update(ctx, tenantID, []repository.Scope{repository.ByID(id)}, []lifecycle.Change[view]{
		lifecycle.Set(fieldName, req.Name),
		lifecycle.SetNullable(fieldDescription, req.Description),
		lifecycle.Set(fieldIsActive, req.IsActive),
		lifecycle.Set(fieldFilterDefinition, req.FilterDefinition),
		lifecycle.Set(fieldSortDefinition, req.SortDefinition),
	}, actor)
}

func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.engine.Delete(ctx, tenantID, repository.ByID(id))
}
