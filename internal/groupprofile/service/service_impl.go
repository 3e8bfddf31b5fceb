package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/groupprofile/domain"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"github.com/smallbiznis/crm/pkg/repository"
	"gorm.io/datatypes"
)

const kindName = "group_profile"

var (
	fieldProfileType = lifecycle.Field[domain.GroupProfile, string]{
		Name: "profile_type",
		Get:  func(p *domain.GroupProfile) string { return p.ProfileType },
		Set:  func(p *domain.GroupProfile, v string) { p.ProfileType = v },
	}
	fieldIsSupportQueue = lifecycle.Field[domain.GroupProfile, bool]{
		Name: "is_support_queue",
		Get:  func(p *domain.GroupProfile) bool { return p.IsSupportQueue },
		Set:  func(p *domain.GroupProfile, v bool) { p.IsSupportQueue = v },
	}
	fieldIsAssignable = lifecycle.Field[domain.GroupProfile, bool]{
		Name: "is_assignable",
		Get:  func(p *domain.GroupProfile) bool { return p.IsAssignable },
		Set:  func(p *domain.GroupProfile, v bool) { p.IsAssignable = v },
	}
	fieldDefaultSLAPolicyID = lifecycle.Field[domain.GroupProfile, *uuid.UUID]{
		Name:  "default_sla_policy_id",
		Get:   func(p *domain.GroupProfile) *uuid.UUID { return p.DefaultSLAPolicyID },
		Set:   func(p *domain.GroupProfile, v *uuid.UUID) { p.DefaultSLAPolicyID = v },
		Equal: lifecycle.UUIDPtrEqual,
	}
	fieldRoutingConfig = lifecycle.Field[domain.GroupProfile, datatypes.JSON]{
		Name:  "routing_config",
		Get:   func(p *domain.GroupProfile) datatypes.JSON { return p.RoutingConfig },
		Set:   func(p *domain.GroupProfile, v datatypes.JSON) { p.RoutingConfig = v },
		Equal: lifecycle.JSONEqual,
	}
	fieldAIWorkModeDefault = lifecycle.Field[domain.GroupProfile, string]{
		Name: "ai_work_mode_default",
		Get:  func(p *domain.GroupProfile) string { return p.AIWorkModeDefault },
		Set:  func(p *domain.GroupProfile, v string) { p.AIWorkModeDefault = v },
	}
	fieldBusinessHoursID = lifecycle.Field[domain.GroupProfile, *uuid.UUID]{
		Name:  "business_hours_id",
		Get:   func(p *domain.GroupProfile) *uuid.UUID { return p.BusinessHoursID },
		Set:   func(p *domain.GroupProfile, v *uuid.UUID) { p.BusinessHoursID = v },
		Equal: lifecycle.UUIDPtrEqual,
	}
)

func kind() lifecycle.Kind[domain.GroupProfile] {
	return lifecycle.Kind[domain.GroupProfile]{
		Name:     kindName,
		Order:    "created_at desc",
		ID:       func(p *domain.GroupProfile) uuid.UUID { return p.ID },
		Snapshot: (*domain.GroupProfile).Snapshot,
		Touch: lifecycle.Touch(
			func(p *domain.GroupProfile) *time.Time { return &p.UpdatedAt },
			func(p *domain.GroupProfile) *string { return &p.UpdatedBy },
		),
	}
}

type Service struct {
	engine *lifecycle.Engine[domain.GroupProfile]
}

func New(deps lifecycle.Deps) domain.Service {
	return &Service{engine: lifecycle.New(deps, kind())}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (pagination.Envelope[*domain.GroupProfile], error) {
	return s.engine.List(ctx, req.TenantID, req.Page,
		repository.EqPtr("profile_type", req.ProfileType),
		repository.EqPtr("is_support_queue", req.IsSupportQueue),
	)
}

func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req domain.CreateRequest, actor string) (*domain.GroupProfile, error) {
	if req.GroupID == uuid.Nil {
		return nil, domain.ErrInvalidGroupID
	}
	if err := validateEnums(req.ProfileType, req.AIWorkModeDefault); err != nil {
		return nil, err
	}

	now := s.engine.Now()
	profile := &domain.GroupProfile{
		ID:                 uuid.New(),
		TenantID:           tenantID,
		GroupID:            req.GroupID,
		ProfileType:        lifecycle.ValueOr(req.ProfileType, domain.ProfileTypeSupportQueue),
		IsSupportQueue:     lifecycle.ValueOr(req.IsSupportQueue, true),
		IsAssignable:       lifecycle.ValueOr(req.IsAssignable, true),
		DefaultSLAPolicyID: req.DefaultSLAPolicyID,
		AIWorkModeDefault:  lifecycle.ValueOr(req.AIWorkModeDefault, domain.AIWorkModeHumanOnly),
		BusinessHoursID:    req.BusinessHoursID,
		CreatedAt:          now,
		UpdatedAt:          now,
		CreatedBy:          actor,
		UpdatedBy:          actor,
	}
	if req.RoutingConfig != nil {
		profile.RoutingConfig = *req.RoutingConfig
	}
	return s.engine.Create(ctx, tenantID, profile)
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*domain.GroupProfile, error) {
	return s.engine.Get(ctx, tenantID, repository.ByID(id))
}

func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req domain.UpdateRequest, actor string) (*domain.GroupProfile, error) {
	if err := validateEnums(req.ProfileType, req.AIWorkModeDefault); err != nil {
		return nil, err
	}
	return s.engine.Update(ctx, tenantID, []repository.Scope{repository.ByID(id)}, []lifecycle.Change[domain.GroupProfile]{
		lifecycle.Set(fieldProfileType, req.ProfileType),
		lifecycle.Set(fieldIsSupportQueue, req.IsSupportQueue),
		lifecycle.Set(fieldIsAssignable, req.IsAssignable),
		lifecycle.SetNullable(fieldDefaultSLAPolicyID, req.DefaultSLAPolicyID),
		lifecycle.Set(fieldRoutingConfig, req.RoutingConfig),
		lifecycle.Set(fieldAIWorkModeDefault, req.AIWorkModeDefault),
		lifecycle.SetNullable(fieldBusinessHoursID, req.BusinessHoursID),
	}, actor)
}

func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.engine.Delete(ctx, tenantID, repository.ByID(id))
}

func validateEnums(profileType, aiWorkMode *string) error {
	if profileType != nil && !domain.ValidProfileType(*profileType) {
		return domain.ErrInvalidProfileType
	}
	if aiWorkMode != nil && !domain.ValidAIWorkMode(*aiWorkMode) {
		return domain.ErrInvalidAIWorkMode
	}
	return nil
}
