package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/automationexecution/domain"
	"github.com/smallbiznis/crm/internal/events"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"github.com/smallbiznis/crm/pkg/repository"
	"gorm.io/datatypes"
)

type execution = domain.AutomationActionExecution

const (
	maxKeyLength     = 100
	maxTriggerLength = 100
	maxEntityType    = 50
)

var (
	fieldStatus = lifecycle.Field[execution, string]{
		Name: "status",
		Get:  func(e *execution) string { return e.Status },
		Set:  func(e *execution, v string) { e.Status = v },
	}
	fieldResponseCode = lifecycle.Field[execution, *int]{
		Name:  "response_code",
		Get:   func(e *execution) *int { return e.ResponseCode },
		Set:   func(e *execution, v *int) { e.ResponseCode = v },
		Equal: lifecycle.PtrEqual[int],
	}
	fieldResponseBody = lifecycle.Field[execution, datatypes.JSON]{
		Name:  "response_body",
		Get:   func(e *execution) datatypes.JSON { return e.ResponseBody },
		Set:   func(e *execution, v datatypes.JSON) { e.ResponseBody = v },
		Equal: lifecycle.JSONEqual,
	}
	fieldErrorMessage = lifecycle.Field[execution, *string]{
		Name:  "error_message",
		Get:   func(e *execution) *string { return e.ErrorMessage },
		Set:   func(e *execution, v *string) { e.ErrorMessage = v },
		Equal: lifecycle.PtrEqual[string],
	}
	fieldStartedAt = lifecycle.Field[execution, *time.Time]{
		Name:  "started_at",
		Get:   func(e *execution) *time.Time { return e.StartedAt },
		Set:   func(e *execution, v *time.Time) { e.StartedAt = v },
		Equal: lifecycle.TimePtrEqual,
	}
	fieldCompletedAt = lifecycle.Field[execution, *time.Time]{
		Name:  "completed_at",
		Get:   func(e *execution) *time.Time { return e.CompletedAt },
		Set:   func(e *execution, v *time.Time) { e.CompletedAt = v },
		Equal: lifecycle.TimePtrEqual,
	}
)

type Service struct {
	engine *lifecycle.Engine[execution]
}

func New(deps lifecycle.Deps) domain.Service {
	s := &Service{}
	s.engine = lifecycle.New(deps, lifecycle.Kind[execution]{
		Name:        "automation_action_execution",
		Order:       "created_at desc",
		ID:          func(e *execution) uuid.UUID { return e.ID },
		Snapshot:    (*execution).Snapshot,
		Headers:     headers,
		Validate:    validateTransition,
		AfterUpdate: s.statusChanged,
	})
	return s
}

func headers(e *execution) map[string]string {
	return map[string]string{
		"action_id":    e.ActionID.String(),
		"execution_id": e.ID.String(),
	}
}

func validateTransition(before, after *execution) error {
	if !domain.CanTransition(before.Status, after.Status) {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (s *Service) statusChanged(ctx context.Context, n *events.KindNotifier, before, after *execution, _ lifecycle.Delta) error {
	if before.Status == after.Status {
		return nil
	}
	_, err := n.Emit(ctx, events.ActionStatusChanged, after.TenantID, map[string]any{
		"tenant_id":    after.TenantID.String(),
		"execution_id": after.ID.String(),
		"action_id":    after.ActionID.String(),
		"status":       after.Status,
		"payload":      after.Snapshot(),
		"changed_dt":   events.FormatTime(s.engine.Now()),
	}, headers(after))
	return err
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (pagination.Envelope[*execution], error) {
	if req.Status != nil && !domain.ValidStatus(*req.Status) {
		return pagination.Envelope[*execution]{}, domain.ErrInvalidStatus
	}
	return s.engine.List(ctx, req.TenantID, req.Page,
		repository.EqPtr("action_id", req.ActionID),
		repository.EqPtr("entity_type", req.EntityType),
		repository.EqPtr("entity_id", req.EntityID),
		repository.EqPtr("status", req.Status),
	)
}

func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req domain.CreateRequest) (*execution, error) {
	entityType := strings.TrimSpace(req.EntityType)
	trigger := strings.TrimSpace(req.TriggerEvent)
	key := strings.TrimSpace(req.ExecutionKey)
	switch {
	case req.ActionID == uuid.Nil:
		return nil, domain.ErrInvalidAction
	case req.EntityID == uuid.Nil, entityType == "", len(entityType) > maxEntityType:
		return nil, domain.ErrInvalidEntity
	case trigger == "", len(trigger) > maxTriggerLength:
		return nil, domain.ErrInvalidTriggerEvent
	case key == "", len(key) > maxKeyLength:
		return nil, domain.ErrInvalidExecutionKey
	}

	now := s.engine.Now()
	row := &execution{
		ID:           uuid.New(),
		TenantID:     tenantID,
		ActionID:     req.ActionID,
		EntityType:   entityType,
		EntityID:     req.EntityID,
		PipelineID:   req.PipelineID,
		FromStageID:  req.FromStageID,
		ToStageID:    req.ToStageID,
		ListID:       req.ListID,
		TriggerEvent: trigger,
		ExecutionKey: key,
		Status:       domain.StatusPending,
		ResponseCode: req.ResponseCode,
		ErrorMessage: req.ErrorMessage,
		TriggeredAt:  lifecycle.ValueOr(req.TriggeredAt, now).UTC(),
		StartedAt:    req.StartedAt,
		CompletedAt:  req.CompletedAt,
		CreatedAt:    now,
	}
	if req.ResponseBody != nil {
		row.ResponseBody = *req.ResponseBody
	}
	return s.engine.Create(ctx, tenantID, row)
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*execution, error) {
	return s.engine.Get(ctx, tenantID, repository.ByID(id))
}

func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req domain.UpdateRequest) (*execution, error) {
	if req.Status != nil && !domain.ValidStatus(*req.Status) {
		return nil, domain.ErrInvalidStatus
	}
	changes := []lifecycle.Change[execution]{
		lifecycle.Set(fieldStatus, req.Status),
		lifecycle.SetNullable(fieldResponseCode, req.ResponseCode),
		lifecycle.Set(fieldResponseBody, req.ResponseBody),
		lifecycle.SetNullable(fieldErrorMessage, req.ErrorMessage),
		lifecycle.SetNullable(fieldStartedAt, req.StartedAt),
		lifecycle.SetNullable(fieldCompletedAt, req.CompletedAt),
	}
	return s.engine.Update(ctx, tenantID, []repository.Scope{repository.ByID(id)}, append(changes, s.stamps(req)...), "")
}

// stamps fills started_at and completed_at from the clock when a status
// change arrives without them.
func (s *Service) stamps(req domain.UpdateRequest) []lifecycle.Change[execution] {
	if req.Status == nil {
		return nil
	}
	now := s.engine.Now()
	var out []lifecycle.Change[execution]
	if *req.Status != domain.StatusPending && req.StartedAt == nil {
		out = append(out, lifecycle.Fill(fieldStartedAt, &now))
	}
	if domain.Terminal(*req.Status) && req.CompletedAt == nil {
		out = append(out, lifecycle.Fill(fieldCompletedAt, &now))
	}
	return out
}
