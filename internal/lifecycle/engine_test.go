package lifecycle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/events"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/internal/lifecycle/lifecycletest"
	"github.com/smallbiznis/crm/pkg/db"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"github.com/smallbiznis/crm/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type widget struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_widget_tenant_name"`
	Name      string    `gorm:"not null;uniqueIndex:ux_widget_tenant_name"`
	Note      *string
	IsActive  bool
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
	CreatedBy string
	UpdatedBy string
}

var (
	widgetName = lifecycle.Field[widget, string]{
		Name: "name",
		Get:  func(w *widget) string { return w.Name },
		Set:  func(w *widget, v string) { w.Name = v },
	}
	widgetNote = lifecycle.Field[widget, *string]{
		Name:  "note",
		Get:   func(w *widget) *string { return w.Note },
		Set:   func(w *widget, v *string) { w.Note = v },
		Equal: lifecycle.PtrEqual[string],
	}
	widgetActive = lifecycle.Field[widget, bool]{
		Name: "is_active",
		Get:  func(w *widget) bool { return w.IsActive },
		Set:  func(w *widget, v bool) { w.IsActive = v },
	}
)

func widgetKind() lifecycle.Kind[widget] {
	return lifecycle.Kind[widget]{
		Name:  "widget",
		Order: "created_at desc",
		ID:    func(w *widget) uuid.UUID { return w.ID },
		Snapshot: func(w *widget) map[string]any {
			return map[string]any{
				"id":         w.ID.String(),
				"tenant_id":  w.TenantID.String(),
				"name":       w.Name,
				"note":       w.Note,
				"is_active":  w.IsActive,
				"updated_at": events.FormatTime(w.UpdatedAt),
			}
		},
		Touch: lifecycle.Touch(
			func(w *widget) *time.Time { return &w.UpdatedAt },
			func(w *widget) *string { return &w.UpdatedBy },
		),
	}
}

func setup(t *testing.T) (*lifecycletest.Harness, *lifecycle.Engine[widget]) {
	t.Helper()
	h := lifecycletest.New(t, &widget{})
	return h, lifecycle.New(h.Deps, widgetKind())
}

func newWidget(h *lifecycletest.Harness, tenant uuid.UUID, name string) *widget {
	now := h.Clock.Now()
	return &widget{
		ID: uuid.New(), TenantID: tenant, Name: name, IsActive: true,
		CreatedAt: now, UpdatedAt: now, CreatedBy: "alice", UpdatedBy: "alice",
	}
}

func str(s string) *string { return &s }
func boolean(b bool) *bool  { return &b }

func TestCreatePublishesSnapshot(t *testing.T) {
	h, engine := setup(t)
	tenant := uuid.New()

	created, err := engine.Create(context.Background(), tenant, newWidget(h, tenant, "first"))
	require.NoError(t, err)

	envs := h.Events.Envelopes()
	require.Len(t, envs, 1)
	assert.Equal(t, "crm.widget.created", envs[0].EventType)
	assert.Equal(t, tenant.String(), envs[0].Data["tenant_id"])
	payload := envs[0].Data["payload"].(map[string]any)
	assert.Equal(t, created.ID.String(), payload["id"])
	assert.Equal(t, "first", payload["name"])
	assert.Equal(t, 1.0, h.Mutations(t, "widget", "create", "success"))
}

func TestGetIsTenantScoped(t *testing.T) {
	h, engine := setup(t)
	ctx := context.Background()
	t1, t2 := uuid.New(), uuid.New()

	w, err := engine.Create(ctx, t1, newWidget(h, t1, "mine"))
	require.NoError(t, err)

	_, err = engine.Get(ctx, t2, repository.ByID(w.ID))
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)

	_, err = engine.Update(ctx, t2, []repository.Scope{repository.ByID(w.ID)},
		[]lifecycle.Change[widget]{lifecycle.Set(widgetName, str("stolen"))}, "mallory")
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)

	assert.ErrorIs(t, engine.Delete(ctx, t2, repository.ByID(w.ID)), lifecycle.ErrNotFound)

	got, err := engine.Get(ctx, t1, repository.ByID(w.ID))
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Name)
	assert.Len(t, h.Events.Envelopes(), 1)
}

func TestUpdateWithSameValuesIsNoop(t *testing.T) {
	h, engine := setup(t)
	ctx := context.Background()
	tenant := uuid.New()

	w, err := engine.Create(ctx, tenant, newWidget(h, tenant, "Old"))
	require.NoError(t, err)
	h.Events.Reset()
	h.Clock.Advance(time.Hour)

	got, err := engine.Update(ctx, tenant, []repository.Scope{repository.ByID(w.ID)}, []lifecycle.Change[widget]{
		lifecycle.Set(widgetName, str("Old")),
		lifecycle.Set(widgetActive, boolean(true)),
		lifecycle.SetNullable(widgetNote, nil),
	}, "bob")
	require.NoError(t, err)

	assert.Empty(t, h.Events.Envelopes())
	assert.True(t, got.UpdatedAt.Equal(w.UpdatedAt))
	assert.Equal(t, "alice", got.UpdatedBy)

	stored, err := engine.Get(ctx, tenant, repository.ByID(w.ID))
	require.NoError(t, err)
	assert.True(t, stored.UpdatedAt.Equal(lifecycletest.Epoch))
	assert.Equal(t, 1.0, h.Mutations(t, "widget", "update", "noop"))
}

func TestPartialUpdateChangesOnlyRequestedFields(t *testing.T) {
	h, engine := setup(t)
	ctx := context.Background()
	tenant := uuid.New()

	w := newWidget(h, tenant, "Old")
	w.Note = str("keep")
	_, err := engine.Create(ctx, tenant, w)
	require.NoError(t, err)
	h.Events.Reset()
	h.Clock.Advance(time.Minute)

	got, err := engine.Update(ctx, tenant, []repository.Scope{repository.ByID(w.ID)}, []lifecycle.Change[widget]{
		lifecycle.Set(widgetName, str("New")),
		lifecycle.Set(widgetActive, boolean(true)),
	}, "bob")
	require.NoError(t, err)

	assert.Equal(t, "New", got.Name)
	assert.Equal(t, "keep", *got.Note)
	assert.True(t, got.IsActive)
	assert.Equal(t, "bob", got.UpdatedBy)
	assert.True(t, got.UpdatedAt.Equal(lifecycletest.Epoch.Add(time.Minute)))

	stored, err := engine.Get(ctx, tenant, repository.ByID(w.ID))
	require.NoError(t, err)
	assert.Equal(t, "New", stored.Name)
	assert.Equal(t, "keep", *stored.Note)
	assert.Equal(t, "alice", stored.CreatedBy)
	assert.Equal(t, "bob", stored.UpdatedBy)

	envs := h.Events.Envelopes()
	require.Len(t, envs, 1)
	assert.Equal(t, "crm.widget.updated", envs[0].EventType)
	changes := envs[0].Data["changes"].(map[string]any)
	assert.Equal(t, map[string]any{"name": "New"}, changes["base_fields"])
	payload := envs[0].Data["payload"].(map[string]any)
	assert.Equal(t, "New", payload["name"])
	assert.Equal(t, "2025-03-01T10:01:00Z", payload["updated_at"])
}

func TestNullableFieldDeltaCarriesValue(t *testing.T) {
	h, engine := setup(t)
	ctx := context.Background()
	tenant := uuid.New()

	w, err := engine.Create(ctx, tenant, newWidget(h, tenant, "n"))
	require.NoError(t, err)
	h.Events.Reset()

	_, err = engine.Update(ctx, tenant, []repository.Scope{repository.ByID(w.ID)},
		[]lifecycle.Change[widget]{lifecycle.SetNullable(widgetNote, str("hello"))}, "bob")
	require.NoError(t, err)

	envs := h.Events.Envelopes()
	require.Len(t, envs, 1)
	changes := envs[0].Data["changes"].(map[string]any)
	assert.Equal(t, map[string]any{"note": "hello"}, changes["base_fields"])
}

func TestDeleteIsTerminal(t *testing.T) {
	h, engine := setup(t)
	ctx := context.Background()
	tenant := uuid.New()

	w, err := engine.Create(ctx, tenant, newWidget(h, tenant, "gone"))
	require.NoError(t, err)
	h.Events.Reset()
	h.Clock.Advance(time.Second)

	require.NoError(t, engine.Delete(ctx, tenant, repository.ByID(w.ID)))
	assert.Zero(t, h.Count(t, &widget{}))

	envs := h.Events.Envelopes()
	require.Len(t, envs, 1)
	assert.Equal(t, "crm.widget.deleted", envs[0].EventType)
	assert.Equal(t, "2025-03-01T10:00:01Z", envs[0].Data["deleted_dt"])
	assert.NotContains(t, envs[0].Data, "payload")

	_, err = engine.Get(ctx, tenant, repository.ByID(w.ID))
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
	_, err = engine.Update(ctx, tenant, []repository.Scope{repository.ByID(w.ID)},
		[]lifecycle.Change[widget]{lifecycle.Set(widgetName, str("again"))}, "bob")
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
	assert.ErrorIs(t, engine.Delete(ctx, tenant, repository.ByID(w.ID)), lifecycle.ErrNotFound)
}

func TestConflictLeaksNothing(t *testing.T) {
	h, engine := setup(t)
	ctx := context.Background()
	tenant := uuid.New()

	_, err := engine.Create(ctx, tenant, newWidget(h, tenant, "taken"))
	require.NoError(t, err)
	other, err := engine.Create(ctx, tenant, newWidget(h, tenant, "free"))
	require.NoError(t, err)
	h.Events.Reset()

	_, err = engine.Create(ctx, tenant, newWidget(h, tenant, "taken"))
	assert.ErrorIs(t, err, db.ErrConflict)

	h.Clock.Advance(time.Minute)
	got, err := engine.Update(ctx, tenant, []repository.Scope{repository.ByID(other.ID)},
		[]lifecycle.Change[widget]{lifecycle.Set(widgetName, str("taken"))}, "bob")
	assert.ErrorIs(t, err, db.ErrConflict)
	assert.Nil(t, got)
	assert.Equal(t, "free", other.Name)
	assert.True(t, other.UpdatedAt.Equal(lifecycletest.Epoch))

	stored, err := engine.Get(ctx, tenant, repository.ByID(other.ID))
	require.NoError(t, err)
	assert.Equal(t, "free", stored.Name)
	assert.Equal(t, "alice", stored.UpdatedBy)
	assert.Empty(t, h.Events.Envelopes())
	assert.Equal(t, 1.0, h.Mutations(t, "widget", "update", "conflict"))
}

func TestPublishFailureAfterCommitIsReturned(t *testing.T) {
	h, engine := setup(t)
	tenant := uuid.New()
	h.Events.Err = errors.New("broker down")

	_, err := engine.Create(context.Background(), tenant, newWidget(h, tenant, "durable"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crm.widget.created")
	assert.Equal(t, int64(1), h.Count(t, &widget{}))
}

func TestValidateRejectsBeforeWrite(t *testing.T) {
	h := lifecycletest.New(t, &widget{})
	kind := widgetKind()
	errRenamed := lifecycle.NewFieldError("name", "immutable")
	kind.Validate = func(before, after *widget) error {
		if before.Name != after.Name {
			return errRenamed
		}
		return nil
	}
	engine := lifecycle.New(h.Deps, kind)
	ctx := context.Background()
	tenant := uuid.New()

	w, err := engine.Create(ctx, tenant, newWidget(h, tenant, "fixed"))
	require.NoError(t, err)
	h.Events.Reset()

	_, err = engine.Update(ctx, tenant, []repository.Scope{repository.ByID(w.ID)},
		[]lifecycle.Change[widget]{lifecycle.Set(widgetName, str("other"))}, "bob")
	assert.ErrorIs(t, err, errRenamed)
	assert.Empty(t, h.Events.Envelopes())
}

func TestAfterUpdateSeesCausation(t *testing.T) {
	h := lifecycletest.New(t, &widget{})
	kind := widgetKind()
	kind.AfterUpdate = func(ctx context.Context, n *events.KindNotifier, before, after *widget, delta lifecycle.Delta) error {
		if before.IsActive == after.IsActive {
			return nil
		}
		_, err := n.Emit(ctx, events.ActionStatusChanged, after.TenantID, map[string]any{"is_active": after.IsActive}, nil)
		return err
	}
	engine := lifecycle.New(h.Deps, kind)
	ctx := context.Background()
	tenant := uuid.New()

	w, err := engine.Create(ctx, tenant, newWidget(h, tenant, "toggle"))
	require.NoError(t, err)
	h.Events.Reset()

	_, err = engine.Update(ctx, tenant, []repository.Scope{repository.ByID(w.ID)},
		[]lifecycle.Change[widget]{lifecycle.Set(widgetActive, boolean(false))}, "bob")
	require.NoError(t, err)

	envs := h.Events.Envelopes()
	require.Len(t, envs, 2)
	assert.Equal(t, []string{"crm.widget.updated", "crm.widget.status_changed"}, h.Events.Types())
	assert.Equal(t, envs[0].EventID, envs[1].CausationID)
}

func TestListFiltersAndPages(t *testing.T) {
	h, engine := setup(t)
	ctx := context.Background()
	t1, t2 := uuid.New(), uuid.New()

	for i, name := range []string{"a", "b", "c"} {
		w := newWidget(h, t1, name)
		w.CreatedAt = lifecycletest.Epoch.Add(time.Duration(i) * time.Minute)
		w.IsActive = name != "b"
		_, err := engine.Create(ctx, t1, w)
		require.NoError(t, err)
	}
	_, err := engine.Create(ctx, t2, newWidget(h, t2, "z"))
	require.NoError(t, err)

	page, err := engine.List(ctx, &t1, pagination.Page{Limit: 1}, repository.Eq("is_active", true))
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.Limit)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "c", page.Items[0].Name)

	all, err := engine.List(ctx, nil, pagination.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.Total)
	assert.Equal(t, pagination.DefaultLimit, all.Limit)
	assert.Len(t, all.Items, 4)

	_, err = engine.List(ctx, &t1, pagination.Page{Offset: -1})
	assert.ErrorIs(t, err, pagination.ErrInvalidPage)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", lifecycle.Outcome(nil))
	assert.Equal(t, "not_found", lifecycle.Outcome(lifecycle.ErrNotFound))
	assert.Equal(t, "invalid", lifecycle.Outcome(lifecycle.ErrTenantMismatch))
	assert.Equal(t, "conflict", lifecycle.Outcome(db.Translate("x", gorm.ErrDuplicatedKey)))
	assert.Equal(t, "error", lifecycle.Outcome(errors.New("boom")))
}
