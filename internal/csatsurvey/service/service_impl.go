package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/csatsurvey/domain"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"github.com/smallbiznis/crm/pkg/repository"
	"gorm.io/datatypes"
)

type survey = domain.CsatSurvey

var (
	fieldName = lifecycle.Field[survey, string]{
		Name: "name",
		Get:  func(s *survey) string { return s.Name },
		Set:  func(s *survey, v string) { s.Name = v },
	}
	fieldIsActive = lifecycle.Field[survey, bool]{
		Name: "is_active",
		Get:  func(s *survey) bool { return s.IsActive },
		Set:  func(s *survey, v bool) { s.IsActive = v },
	}
	fieldConfig = lifecycle.Field[survey, datatypes.JSON]{
		Name:  "config",
		Get:   func(s *survey) datatypes.JSON { return s.Config },
		Set:   func(s *survey, v datatypes.JSON) { s.Config = v },
		Equal: lifecycle.JSONEqual,
	}
)

type Service struct {
	engine *lifecycle.Engine[survey]
}

func New(deps lifecycle.Deps) domain.Service {
	return &Service{engine: lifecycle.New(deps, lifecycle.Kind[survey]{
		Name:     "csat_survey",
		Order:    "created_at desc",
		ID:       func(s *survey) uuid.UUID { return s.ID },
		Snapshot: (*survey).Snapshot,
		Touch: lifecycle.Touch(
			func(s *survey) *time.Time { return &s.UpdatedAt },
			func(s *survey) *string { return &s.UpdatedBy },
		),
	})}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (pagination.Envelope[*survey], error) {
	return s.engine.List(ctx, req.TenantID, req.Page, repository.EqPtr("is_active", req.IsActive))
}

func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req domain.CreateRequest, actor string) (*survey, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := s.engine.Now()
	row := &survey{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      name,
		IsActive:  lifecycle.ValueOr(req.IsActive, true),
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: actor,
		UpdatedBy: actor,
	}
	if req.Config != nil {
		row.Config = *req.Config
	}
	return s.engine.Create(ctx, tenantID, row)
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*survey, error) {
	return s.engine.Get(ctx, tenantID, repository.ByID(id))
}

func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req domain.UpdateRequest, actor string) (*survey, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		req.Name = &name
	}
	return s.engine.Update(ctx, tenantID, []repository.Scope{repository.ByID(id)}, []lifecycle.Change[survey]{
		lifecycle.Set(fieldName, req.Name),
		lifecycle.Set(fieldIsActive, req.IsActive),
		lifecycle.Set(fieldConfig, req.Config),
	}, actor)
}

func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.engine.Delete(ctx, tenantID, repository.ByID(id))
}
