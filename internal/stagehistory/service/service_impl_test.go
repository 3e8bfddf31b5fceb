package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/internal/lifecycle/lifecycletest"
	"github.com/smallbiznis/crm/internal/stagehistory/domain"
	"github.com/smallbiznis/crm/internal/stagehistory/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDefaultsChangedAt(t *testing.T) {
	h := lifecycletest.New(t, &domain.StageHistory{})
	svc := service.New(h.Deps)
	tenant := uuid.New()
	to := uuid.New()

	row, err := svc.Record(context.Background(), tenant, domain.CreateRequest{
		EntityType: " deal ",
		EntityID:   uuid.New(),
		ToStageID:  &to,
	})
	require.NoError(t, err)
	assert.Equal(t, "deal", row.EntityType)
	assert.True(t, row.ChangedAt.Equal(lifecycletest.Epoch))

	envs := h.Events.Envelopes()
	require.Len(t, envs, 1)
	assert.Equal(t, "crm.stage_history.created", envs[0].EventType)
	payload := envs[0].Data["payload"].(map[string]any)
	assert.Equal(t, to.String(), payload["to_stage_id"])
	assert.Nil(t, payload["from_stage_id"])
	assert.Equal(t, "deal", envs[0].Headers["entity_type"])
}

func TestRecordValidatesEntity(t *testing.T) {
	h := lifecycletest.New(t, &domain.StageHistory{})
	svc := service.New(h.Deps)
	ctx := context.Background()

	_, err := svc.Record(ctx, uuid.New(), domain.CreateRequest{EntityID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrInvalidEntityType)
	_, err = svc.Record(ctx, uuid.New(), domain.CreateRequest{EntityType: "lead"})
	assert.ErrorIs(t, err, domain.ErrInvalidEntityID)
	long := "a-source-name-that-is-well-beyond-the-fifty-character-limit"
	_, err = svc.Record(ctx, uuid.New(), domain.CreateRequest{EntityType: "lead", EntityID: uuid.New(), Source: &long})
	assert.ErrorIs(t, err, domain.ErrInvalidSource)

	assert.EqualValues(t, 0, h.Count(t, &domain.StageHistory{}))
}

func TestListByEntityNewestFirst(t *testing.T) {
	h := lifecycletest.New(t, &domain.StageHistory{})
	svc := service.New(h.Deps)
	ctx := context.Background()
	tenant := uuid.New()
	deal := uuid.New()
	entityType := "deal"

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		h.Clock.Advance(time.Minute)
		row, err := svc.Record(ctx, tenant, domain.CreateRequest{EntityType: entityType, EntityID: deal})
		require.NoError(t, err)
		ids = append(ids, row.ID)
	}
	_, err := svc.Record(ctx, tenant, domain.CreateRequest{EntityType: entityType, EntityID: uuid.New()})
	require.NoError(t, err)

	page, err := svc.List(ctx, domain.ListRequest{TenantID: &tenant, EntityType: &entityType, EntityID: &deal})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	require.Len(t, page.Items, 3)
	assert.Equal(t, ids[2], page.Items[0].ID)
	assert.Equal(t, ids[0], page.Items[2].ID)

	_, err = svc.Get(ctx, uuid.New(), ids[0])
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}
