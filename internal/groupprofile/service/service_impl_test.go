package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/groupprofile/domain"
	"github.com/smallbiznis/crm/internal/groupprofile/service"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/internal/lifecycle/lifecycletest"
	"github.com/smallbiznis/crm/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func setup(t *testing.T) (*lifecycletest.Harness, domain.Service) {
	t.Helper()
	h := lifecycletest.New(t, &domain.GroupProfile{})
	return h, service.New(h.Deps)
}

func ptr[V any](v V) *V { return &v }

func TestCreateAppliesDefaults(t *testing.T) {
	h, svc := setup(t)
	tenant := uuid.New()
	group := uuid.New()

	profile, err := svc.Create(context.Background(), tenant, domain.CreateRequest{GroupID: group}, "alice")
	require.NoError(t, err)

	assert.Equal(t, domain.ProfileTypeSupportQueue, profile.ProfileType)
	assert.True(t, profile.IsSupportQueue)
	assert.True(t, profile.IsAssignable)
	assert.Equal(t, domain.AIWorkModeHumanOnly, profile.AIWorkModeDefault)
	assert.Equal(t, "alice", profile.CreatedBy)
	assert.Equal(t, "alice", profile.UpdatedBy)

	envs := h.Events.Envelopes()
	require.Len(t, envs, 1)
	assert.Equal(t, "crm.group_profile.created", envs[0].EventType)
	payload := envs[0].Data["payload"].(map[string]any)
	assert.Equal(t, group.String(), payload["group_id"])
	assert.Equal(t, "support_queue", payload["profile_type"])
	assert.Equal(t, true, payload["is_support_queue"])
	assert.Equal(t, true, payload["is_assignable"])
	assert.Equal(t, "human_only", payload["ai_work_mode_default"])
	assert.Nil(t, payload["routing_config"])
	assert.Equal(t, "2025-03-01T10:00:00Z", payload["created_at"])
}

func TestCreateRejectsInvalidEnumsBeforeWrite(t *testing.T) {
	h, svc := setup(t)
	ctx := context.Background()
	tenant := uuid.New()

	_, err := svc.Create(ctx, tenant, domain.CreateRequest{GroupID: uuid.New(), ProfileType: ptr("vip")}, "alice")
	assert.ErrorIs(t, err, domain.ErrInvalidProfileType)

	_, err = svc.Create(ctx, tenant, domain.CreateRequest{GroupID: uuid.New(), AIWorkModeDefault: ptr("robots")}, "alice")
	assert.ErrorIs(t, err, domain.ErrInvalidAIWorkMode)

	_, err = svc.Create(ctx, tenant, domain.CreateRequest{}, "alice")
	assert.ErrorIs(t, err, domain.ErrInvalidGroupID)

	assert.Zero(t, h.Count(t, &domain.GroupProfile{}))
	assert.Empty(t, h.Events.Envelopes())
}

func TestOneProfilePerGroup(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()
	tenant := uuid.New()
	group := uuid.New()

	_, err := svc.Create(ctx, tenant, domain.CreateRequest{GroupID: group}, "alice")
	require.NoError(t, err)
	_, err = svc.Create(ctx, tenant, domain.CreateRequest{GroupID: group}, "alice")
	assert.ErrorIs(t, err, db.ErrConflict)

	_, err = svc.Create(ctx, uuid.New(), domain.CreateRequest{GroupID: group}, "alice")
	assert.NoError(t, err)
}

func TestUpdateRoutingConfigComparesSemantically(t *testing.T) {
	h, svc := setup(t)
	ctx := context.Background()
	tenant := uuid.New()

	profile, err := svc.Create(ctx, tenant, domain.CreateRequest{
		GroupID:       uuid.New(),
		RoutingConfig: ptr(datatypes.JSON(`{"strategy":"round_robin","max":3}`)),
	}, "alice")
	require.NoError(t, err)
	h.Events.Reset()

	same := datatypes.JSON(`{"max": 3, "strategy": "round_robin"}`)
	_, err = svc.Update(ctx, tenant, profile.ID, domain.UpdateRequest{RoutingConfig: &same}, "bob")
	require.NoError(t, err)
	assert.Empty(t, h.Events.Envelopes())

	policy := uuid.New()
	updated, err := svc.Update(ctx, tenant, profile.ID, domain.UpdateRequest{
		DefaultSLAPolicyID: &policy,
		AIWorkModeDefault:  ptr(domain.AIWorkModeAIAllowed),
		IsAssignable:       ptr(true),
	}, "bob")
	require.NoError(t, err)
	assert.Equal(t, policy, *updated.DefaultSLAPolicyID)

	envs := h.Events.Envelopes()
	require.Len(t, envs, 1)
	changes := envs[0].Data["changes"].(map[string]any)["base_fields"].(map[string]any)
	assert.Equal(t, []string{"ai_work_mode_default", "default_sla_policy_id"}, lifecycle.Delta(changes).Fields())
	assert.Equal(t, policy, changes["default_sla_policy_id"])
}

func TestUpdateRejectsInvalidEnum(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()
	tenant := uuid.New()

	profile, err := svc.Create(ctx, tenant, domain.CreateRequest{GroupID: uuid.New()}, "alice")
	require.NoError(t, err)

	_, err = svc.Update(ctx, tenant, profile.ID, domain.UpdateRequest{ProfileType: ptr("nope")}, "bob")
	assert.ErrorIs(t, err, domain.ErrInvalidProfileType)

	stored, err := svc.Get(ctx, tenant, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileTypeSupportQueue, stored.ProfileType)
}

func TestListFilters(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()
	tenant := uuid.New()

	_, err := svc.Create(ctx, tenant, domain.CreateRequest{GroupID: uuid.New()}, "alice")
	require.NoError(t, err)
	_, err = svc.Create(ctx, tenant, domain.CreateRequest{
		GroupID: uuid.New(), ProfileType: ptr(domain.ProfileTypeSalesTeam), IsSupportQueue: ptr(false),
	}, "alice")
	require.NoError(t, err)

	page, err := svc.List(ctx, domain.ListRequest{TenantID: &tenant, IsSupportQueue: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, domain.ProfileTypeSalesTeam, page.Items[0].ProfileType)

	other := uuid.New()
	page, err = svc.List(ctx, domain.ListRequest{TenantID: &other})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.NotNil(t, page.Items)
}
