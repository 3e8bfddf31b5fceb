package lifecycle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/config"
	"github.com/smallbiznis/crm/internal/events"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/internal/lifecycle/lifecycletest"
	"github.com/smallbiznis/crm/pkg/db"
	"github.com/smallbiznis/crm/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func outboxDeps(t *testing.T, h *lifecycletest.Harness) lifecycle.Deps {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	deps := h.Deps
	deps.Notifier = events.NewNotifier(events.NotifierParams{
		Config: config.Config{Events: config.EventsConfig{
			Exchange:       "crm",
			Producer:       "crm",
			SchemaVersion:  1,
			PublishTimeout: time.Second,
		}},
		Publisher: events.NewOutboxPublisher(h.DB, node),
		Clock:     h.Clock,
		Metrics:   h.Metrics,
		Log:       zap.NewNop(),
	})
	return deps
}

func TestOutboxRowsCommitWithTheMutation(t *testing.T) {
	h := lifecycletest.New(t, &widget{}, &events.OutboxRecord{})
	engine := lifecycle.New(outboxDeps(t, h), widgetKind())
	ctx := context.Background()
	tenant := uuid.New()

	w, err := engine.Create(ctx, tenant, newWidget(h, tenant, "queued"))
	require.NoError(t, err)

	var rows []events.OutboxRecord
	require.NoError(t, h.DB.Order("id").Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "crm.widget.created", rows[0].EventType)
	assert.Equal(t, tenant.String(), rows[0].TenantID)
	assert.False(t, rows[0].Published)

	_, err = engine.Create(ctx, tenant, newWidget(h, tenant, "queued"))
	assert.ErrorIs(t, err, db.ErrConflict)
	assert.Equal(t, int64(1), h.Count(t, &events.OutboxRecord{}))

	_, err = engine.Update(ctx, tenant, []repository.Scope{repository.ByID(w.ID)},
		[]lifecycle.Change[widget]{lifecycle.Set(widgetName, str("renamed"))}, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), h.Count(t, &events.OutboxRecord{}))
}

func TestOutboxFailureRollsBackTheMutation(t *testing.T) {
	h := lifecycletest.New(t, &widget{}, &events.OutboxRecord{})
	deps := outboxDeps(t, h)
	kind := widgetKind()
	kind.AfterUpdate = func(context.Context, *events.KindNotifier, *widget, *widget, lifecycle.Delta) error {
		return errors.New("downstream rejected")
	}
	engine := lifecycle.New(deps, kind)
	ctx := context.Background()
	tenant := uuid.New()

	w, err := engine.Create(ctx, tenant, newWidget(h, tenant, "original"))
	require.NoError(t, err)

	_, err = engine.Update(ctx, tenant, []repository.Scope{repository.ByID(w.ID)},
		[]lifecycle.Change[widget]{lifecycle.Set(widgetName, str("renamed"))}, "bob")
	require.Error(t, err)

	stored, err := engine.Get(ctx, tenant, repository.ByID(w.ID))
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Name)

	var rows []events.OutboxRecord
	require.NoError(t, h.DB.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "crm.widget.created", rows[0].EventType)
	assert.Equal(t, 1.0, h.Mutations(t, "widget", lifecycle.ActionUpdate, "error"))
}
