package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/inboundchannel/domain"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"github.com/smallbiznis/crm/pkg/repository"
	"gorm.io/datatypes"
)

type channel = domain.InboundChannel

var (
	fieldChannelType = lifecycle.Field[channel, string]{
		Name: "channel_type",
		Get:  func(c *channel) string { return c.ChannelType },
		Set:  func(c *channel, v string) { c.ChannelType = v },
	}
	fieldName = lifecycle.Field[channel, string]{
		Name: "name",
		Get:  func(c *channel) string { return c.Name },
		Set:  func(c *channel, v string) { c.Name = v },
	}
	fieldExternalRef = lifecycle.Field[channel, *string]{
		Name:  "external_ref",
		Get:   func(c *channel) *string { return c.ExternalRef },
		Set:   func(c *channel, v *string) { c.ExternalRef = v },
		Equal: lifecycle.PtrEqual[string],
	}
	fieldConfig = lifecycle.Field[channel, datatypes.JSON]{
		Name:  "config",
		Get:   func(c *channel) datatypes.JSON { return c.Config },
		Set:   func(c *channel, v datatypes.JSON) { c.Config = v },
		Equal: lifecycle.JSONEqual,
	}
	fieldIsActive = lifecycle.Field[channel, bool]{
		Name: "is_active",
		Get:  func(c *channel) bool { return c.IsActive },
		Set:  func(c *channel, v bool) { c.IsActive = v },
	}
)

type Service struct {
	engine *lifecycle.Engine[channel]
}

func New(deps lifecycle.Deps) domain.Service {
	return &Service{engine: lifecycle.New(deps, lifecycle.Kind[channel]{
		Name:     "inbound_channel",
		Order:    "created_at desc",
		ID:       func(c *channel) uuid.UUID { return c.ID },
		Snapshot: (*channel).Snapshot,
		Touch: lifecycle.Touch(
			func(c *channel) *time.Time { return &c.UpdatedAt },
			func(c *channel) *string { return &c.UpdatedBy },
		),
	})}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (pagination.Envelope[*channel], error) {
	return s.engine.List(ctx, req.TenantID, req.Page,
		repository.EqPtr("channel_type", req.ChannelType),
		repository.EqPtr("is_active", req.IsActive),
	)
}

func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req domain.CreateRequest, actor string) (*channel, error) {
	if !domain.ValidChannelType(req.ChannelType) {
		return nil, domain.ErrInvalidChannelType
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := s.engine.Now()
	row := &channel{
		ID:          uuid.New(),
		TenantID:    tenantID,
		ChannelType: req.ChannelType,
		Name:        name,
		ExternalRef: req.ExternalRef,
		IsActive:    lifecycle.ValueOr(req.IsActive, true),
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   actor,
		UpdatedBy:   actor,
	}
	if req.Config != nil {
		row.Config = *req.Config
	}
	return s.engine.Create(ctx, tenantID, row)
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*channel, error) {
	return s.engine.Get(ctx, tenantID, repository.ByID(id))
}

func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req domain.UpdateRequest, actor string) (*channel, error) {
	if req.ChannelType != nil && !domain.ValidChannelType(*req.ChannelType) {
		return nil, domain.ErrInvalidChannelType
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		req.Name = &name
	}
	return s.engine.Update(ctx, tenantID, []repository.Scope{repository.ByID(id)}, []lifecycle.Change[channel]{
		lifecycle.Set(fieldChannelType, req.ChannelType),
		lifecycle.Set(fieldName, req.Name),
		lifecycle.SetNullable(fieldExternalRef, req.ExternalRef),
		lifecycle.Set(fieldConfig, req.Config),
		lifecycle.Set(fieldIsActive, req.IsActive),
	}, actor)
}

func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.engine.Delete(ctx, tenantID, repository.ByID(id))
}
