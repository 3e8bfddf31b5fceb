package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle/lifecycletest"
	"github.com/smallbiznis/crm/internal/ticketformfield/domain"
	"github.com/smallbiznis/crm/internal/ticketformfield/service"
	"github.com/smallbiznis/crm/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[V any](v V) *V { return &v }

func TestFormFieldsListInDisplayOrder(t *testing.T) {
	h := lifecycletest.New(t, &domain.TicketFormField{})
	svc := service.New(h.Deps)
	ctx := context.Background()
	tenant := uuid.New()
	form := uuid.New()

	for _, order := range []int{2, 0, 1} {
		_, err := svc.Create(ctx, tenant, domain.CreateRequest{
			TicketFormID: form, TicketFieldDefID: uuid.New(), DisplayOrder: ptr(order),
		}, "alice")
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, domain.ListRequest{TenantID: &tenant, TicketFormID: &form})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	for i, f := range page.Items {
		assert.Equal(t, i, f.DisplayOrder)
	}
}

func TestFormFieldUniqueness(t *testing.T) {
	h := lifecycletest.New(t, &domain.TicketFormField{})
	svc := service.New(h.Deps)
	ctx := context.Background()
	tenant := uuid.New()
	form := uuid.New()
	def := uuid.New()

	first, err := svc.Create(ctx, tenant, domain.CreateRequest{TicketFormID: form, TicketFieldDefID: def, DisplayOrder: ptr(0)}, "alice")
	require.NoError(t, err)

	_, err = svc.Create(ctx, tenant, domain.CreateRequest{TicketFormID: form, TicketFieldDefID: def, DisplayOrder: ptr(1)}, "alice")
	assert.ErrorIs(t, err, db.ErrConflict)

	second, err := svc.Create(ctx, tenant, domain.CreateRequest{TicketFormID: form, TicketFieldDefID: uuid.New(), DisplayOrder: ptr(1)}, "alice")
	require.NoError(t, err)

	_, err = svc.Update(ctx, tenant, second.ID, domain.UpdateRequest{DisplayOrder: ptr(first.DisplayOrder)}, "bob")
	assert.ErrorIs(t, err, db.ErrConflict)
}

func TestFormFieldUpdateHasNoAuditStamp(t *testing.T) {
	h := lifecycletest.New(t, &domain.TicketFormField{})
	svc := service.New(h.Deps)
	ctx := context.Background()
	tenant := uuid.New()

	_, err := svc.Create(ctx, tenant, domain.CreateRequest{TicketFormID: uuid.New(), TicketFieldDefID: uuid.New(), DisplayOrder: ptr(-1)}, "alice")
	assert.ErrorIs(t, err, domain.ErrInvalidDisplayOrder)

	f, err := svc.Create(ctx, tenant, domain.CreateRequest{TicketFormID: uuid.New(), TicketFieldDefID: uuid.New(), DisplayOrder: ptr(3)}, "alice")
	require.NoError(t, err)
	h.Events.Reset()

	updated, err := svc.Update(ctx, tenant, f.ID, domain.UpdateRequest{DisplayOrder: ptr(5)}, "bob")
	require.NoError(t, err)
	assert.Equal(t, 5, updated.DisplayOrder)
	assert.Equal(t, "alice", updated.CreatedBy)

	envs := h.Events.Envelopes()
	require.Len(t, envs, 1)
	assert.Equal(t, map[string]any{"display_order": 5}, envs[0].Data["changes"].(map[string]any)["base_fields"])
	assert.NotContains(t, envs[0].Data["payload"], "updated_by")
}
