package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle/lifecycletest"
	"github.com/smallbiznis/crm/internal/supportmacro/domain"
	"github.com/smallbiznis/crm/internal/supportmacro/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func ptr[V any](v V) *V { return &v }

func TestRenameToSameNameIsNoop(t *testing.T) {
	h := lifecycletest.New(t, &domain.SupportMacro{})
	svc := service.New(h.Deps)
	ctx := context.Background()
	tenant := uuid.New()

	m, err := svc.Create(ctx, tenant, domain.CreateRequest{
		Name:    "Old",
		Actions: ptr(datatypes.JSON(`[{"type":"set_status","value":"solved"}]`)),
	}, "alice")
	require.NoError(t, err)
	h.Events.Reset()
	h.Clock.Advance(time.Hour)

	got, err := svc.Update(ctx, tenant, m.ID, domain.UpdateRequest{Name: ptr("Old")}, "bob")
	require.NoError(t, err)
	assert.Empty(t, h.Events.Envelopes())
	assert.True(t, got.UpdatedAt.Equal(m.UpdatedAt))

	stored, err := svc.Get(ctx, tenant, m.ID)
	require.NoError(t, err)
	assert.True(t, stored.UpdatedAt.Equal(lifecycletest.Epoch))
	assert.Equal(t, "alice", stored.UpdatedBy)
}

func TestActionsMustBeArray(t *testing.T) {
	h := lifecycletest.New(t, &domain.SupportMacro{})
	svc := service.New(h.Deps)
	ctx := context.Background()
	tenant := uuid.New()

	_, err := svc.Create(ctx, tenant, domain.CreateRequest{Name: "No actions"}, "alice")
	assert.ErrorIs(t, err, domain.ErrInvalidActions)
	_, err = svc.Create(ctx, tenant, domain.CreateRequest{Name: "Object", Actions: ptr(datatypes.JSON(`{}`))}, "alice")
	assert.ErrorIs(t, err, domain.ErrInvalidActions)

	m, err := svc.Create(ctx, tenant, domain.CreateRequest{Name: "Empty", Actions: ptr(datatypes.JSON(`[]`))}, "alice")
	require.NoError(t, err)

	_, err = svc.Update(ctx, tenant, m.ID, domain.UpdateRequest{Actions: ptr(datatypes.JSON(`"x"`))}, "bob")
	assert.ErrorIs(t, err, domain.ErrInvalidActions)

	updated, err := svc.Update(ctx, tenant, m.ID, domain.UpdateRequest{
		Actions:  ptr(datatypes.JSON(`[{"type":"add_tag","value":"vip"}]`)),
		IsActive: ptr(false),
	}, "bob")
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	page, err := svc.List(ctx, domain.ListRequest{TenantID: &tenant, IsActive: ptr(true)})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}
