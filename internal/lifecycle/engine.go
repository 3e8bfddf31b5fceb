package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/clock"
	"github.com/smallbiznis/crm/internal/events"
	"github.com/smallbiznis/crm/internal/observability/logger"
	"github.com/smallbiznis/crm/pkg/db"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"github.com/smallbiznis/crm/pkg/repository"
	"github.com/smallbiznis/crm/pkg/telemetry"
	"github.com/smallbiznis/crm/pkg/telemetry/correlation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the collaborators shared by every kind's engine.
type Deps struct {
	fx.In

	DB       *gorm.DB
	Notifier *events.Notifier
	Clock    clock.Clock
	Metrics  *telemetry.Metrics `optional:"true"`
	Log      *zap.Logger
}

// Engine runs the tenant-scoped create/get/update/delete/list pattern for
// one entity kind: mutate, commit, then publish.
type Engine[T any] struct {
	kind     Kind[T]
	db       *gorm.DB
	repo     repository.Repository[T]
	notifier *events.KindNotifier
	clock    clock.Clock
	metrics  *telemetry.Metrics
	log      *zap.Logger
}

func New[T any](d Deps, kind Kind[T]) *Engine[T] {
	return &Engine[T]{
		kind:     kind,
		db:       d.DB,
		repo:     repository.ProvideStore[T](d.DB),
		notifier: d.Notifier.For(kind.Name),
		clock:    d.Clock,
		metrics:  d.Metrics,
		log:      d.Log.Named(kind.Name + ".service"),
	}
}

func (e *Engine[T]) Now() time.Time { return e.clock.Now() }

func (e *Engine[T]) Notifier() *events.KindNotifier { return e.notifier }

// List returns one page and the count before paging. A nil tenantID lists
// across tenants and is reserved for admin callers.
func (e *Engine[T]) List(ctx context.Context, tenantID *uuid.UUID, page pagination.Page, filters ...repository.Scope) (pagination.Envelope[*T], error) {
	page, err := page.Normalize()
	if err != nil {
		return pagination.Envelope[*T]{}, err
	}
	items, total, err := e.repo.List(ctx, tenantID, page, e.kind.Order, filters...)
	if err != nil {
		return pagination.Envelope[*T]{}, db.Translate("listing "+e.kind.Name, err)
	}
	return pagination.NewEnvelope(items, total, page), nil
}

// Get fails with ErrNotFound unless a row matches both tenant and lookup.
func (e *Engine[T]) Get(ctx context.Context, tenantID uuid.UUID, lookup ...repository.Scope) (*T, error) {
	row, err := e.repo.FindOne(ctx, tenantID, lookup...)
	if err != nil {
		return nil, db.Translate("loading "+e.kind.Name, err)
	}
	if row == nil {
		return nil, ErrNotFound
	}
	return row, nil
}

// Create inserts row, which the caller has fully populated, and publishes
// the created event.
func (e *Engine[T]) Create(ctx context.Context, tenantID uuid.UUID, row *T) (*T, error) {
	err := e.commit(ctx, tenantID, ActionCreate,
		func(tx *gorm.DB) error {
			return e.repo.WithTrx(tx).Create(ctx, row)
		},
		func(ctx context.Context) error {
			data := events.CreatedData(tenantID.String(), e.kind.Snapshot(row))
			_, err := e.notifier.Emit(ctx, events.ActionCreated, tenantID, data, e.headers(row))
			return err
		},
		zap.Stringer("id", e.kind.ID(row)),
	)
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Update applies the changes that differ from the stored row. When nothing
// differs the stored row is returned without a write or an event.
func (e *Engine[T]) Update(ctx context.Context, tenantID uuid.UUID, lookup []repository.Scope, changes []Change[T], actor string) (*T, error) {
	current, err := e.Get(ctx, tenantID, lookup...)
	if err != nil {
		e.record(ActionUpdate, err)
		return nil, err
	}

	delta, effective := ComputeDelta(current, changes)
	if len(delta) == 0 {
		e.metrics.RecordMutation(e.kind.Name, ActionUpdate, telemetry.OutcomeNoop)
		return current, nil
	}

	// Work on a copy so a failed commit leaves current untouched.
	next := new(T)
	*next = *current
	columns := make(map[string]any, len(effective)+2)
	for _, c := range effective {
		c.apply(next)
		columns[c.field] = c.value(next)
	}
	if e.kind.Touch != nil {
		for col, v := range e.kind.Touch(next, actor, e.clock.Now()) {
			columns[col] = v
		}
	}
	if e.kind.Validate != nil {
		if err := e.kind.Validate(current, next); err != nil {
			e.record(ActionUpdate, err)
			return nil, err
		}
	}

	id := e.kind.ID(current)
	err = e.commit(ctx, tenantID, ActionUpdate,
		func(tx *gorm.DB) error {
			return e.repo.WithTrx(tx).Update(ctx, tenantID, id, columns)
		},
		func(ctx context.Context) error {
			data := events.UpdatedData(tenantID.String(), delta, e.kind.Snapshot(next))
			env, err := e.notifier.Emit(ctx, events.ActionUpdated, tenantID, data, e.headers(next))
			if err != nil || e.kind.AfterUpdate == nil {
				return err
			}
			hookCtx := correlation.ContextWithCausationID(ctx, env.EventID)
			return e.kind.AfterUpdate(hookCtx, e.notifier, current, next, delta)
		},
		zap.Stringer("id", id), zap.Strings("fields", delta.Fields()),
	)
	if err != nil {
		return nil, err
	}
	return next, nil
}

// Delete removes the row and publishes a deleted event carrying only the
// deletion time.
func (e *Engine[T]) Delete(ctx context.Context, tenantID uuid.UUID, lookup ...repository.Scope) error {
	current, err := e.Get(ctx, tenantID, lookup...)
	if err != nil {
		e.record(ActionDelete, err)
		return err
	}

	return e.commit(ctx, tenantID, ActionDelete,
		func(tx *gorm.DB) error {
			return e.repo.WithTrx(tx).Delete(ctx, tenantID, e.kind.ID(current))
		},
		func(ctx context.Context) error {
			data := events.DeletedData(tenantID.String(), e.clock.Now())
			_, err := e.notifier.Emit(ctx, events.ActionDeleted, tenantID, data, e.headers(current))
			return err
		},
		zap.Stringer("id", e.kind.ID(current)),
	)
}

// commit writes in one transaction and then emits. With a transactional
// publisher emit runs inside that transaction, so the mutation and its
// envelopes commit or roll back together. Otherwise emit runs after the
// commit and its error is returned with the mutation already durable.
func (e *Engine[T]) commit(ctx context.Context, tenantID uuid.UUID, action string, write func(tx *gorm.DB) error, emit func(ctx context.Context) error, fields ...zap.Field) error {
	inTx := e.notifier.InTx()
	err := db.Commit(ctx, e.db, tenantID, progressive[action]+" "+e.kind.Name, func(tx *gorm.DB) error {
		if err := write(tx); err != nil || !inTx {
			return err
		}
		return emit(events.WithTx(ctx, tx))
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrNotFound
	}
	e.record(action, err)
	if err != nil {
		return err
	}
	logger.WithContext(ctx, e.log).Info(e.kind.Name+" "+past[action], fields...)

	if inTx {
		return nil
	}
	return emit(ctx)
}

func (e *Engine[T]) headers(row *T) map[string]string {
	if e.kind.Headers == nil {
		return nil
	}
	return e.kind.Headers(row)
}

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

var (
	progressive = map[string]string{ActionCreate: "creating", ActionUpdate: "updating", ActionDelete: "deleting"}
	past        = map[string]string{ActionCreate: "created", ActionUpdate: "updated", ActionDelete: "deleted"}
)

func (e *Engine[T]) record(action string, err error) {
	e.metrics.RecordMutation(e.kind.Name, action, Outcome(err))
}

// Outcome classifies err into a low-cardinality metrics label.
func Outcome(err error) string {
	var fieldErr *FieldError
	switch {
	case err == nil:
		return telemetry.OutcomeSuccess
	case errors.Is(err, ErrNotFound):
		return telemetry.OutcomeNotFound
	case errors.As(err, &fieldErr), errors.Is(err, db.ErrInvalidData):
		return telemetry.OutcomeInvalid
	case errors.Is(err, db.ErrConflict):
		return telemetry.OutcomeConflict
	default:
		return telemetry.OutcomeError
	}
}
