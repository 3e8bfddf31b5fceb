package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/internal/stagehistory/domain"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"github.com/smallbiznis/crm/pkg/repository"
)

type entry = domain.StageHistory

const maxShortText = 50

type Service struct {
	engine *lifecycle.Engine[entry]
}

func New(deps lifecycle.Deps) domain.Service {
	return &Service{engine: lifecycle.New(deps, lifecycle.Kind[entry]{
		Name:     "stage_history",
		Order:    "changed_at desc",
		ID:       func(h *entry) uuid.UUID { return h.ID },
		Snapshot: (*entry).Snapshot,
		Headers: func(h *entry) map[string]string {
			return map[string]string{"entity_type": h.EntityType, "entity_id": h.EntityID.String()}
		},
	})}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (pagination.Envelope[*entry], error) {
	return s.engine.List(ctx, req.TenantID, req.Page,
		repository.EqPtr("entity_type", req.EntityType),
		repository.EqPtr("entity_id", req.EntityID),
		repository.EqPtr("pipeline_id", req.PipelineID),
	)
}

func (s *Service) Record(ctx context.Context, tenantID uuid.UUID, req domain.CreateRequest) (*entry, error) {
	entityType := strings.TrimSpace(req.EntityType)
	switch {
	case entityType == "", len(entityType) > maxShortText:
		return nil, domain.ErrInvalidEntityType
	case req.EntityID == uuid.Nil:
		return nil, domain.ErrInvalidEntityID
	case req.Source != nil && len(*req.Source) > maxShortText:
		return nil, domain.ErrInvalidSource
	}

	return s.engine.Create(ctx, tenantID, &entry{
		ID:              uuid.New(),
		TenantID:        tenantID,
		EntityType:      entityType,
		EntityID:        req.EntityID,
		PipelineID:      req.PipelineID,
		FromStageID:     req.FromStageID,
		ToStageID:       req.ToStageID,
		ChangedAt:       lifecycle.ValueOr(req.ChangedAt, s.engine.Now()).UTC(),
		ChangedByUserID: req.ChangedByUserID,
		Source:          req.Source,
	})
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*entry, error) {
	return s.engine.Get(ctx, tenantID, repository.ByID(id))
}
