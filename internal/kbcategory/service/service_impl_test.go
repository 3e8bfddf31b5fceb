package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/kbcategory/domain"
	"github.com/smallbiznis/crm/internal/kbcategory/service"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/internal/lifecycle/lifecycletest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteInOtherTenantLeavesCategoryIntact(t *testing.T) {
	h := lifecycletest.New(t, &domain.KbCategory{})
	svc := service.New(h.Deps)
	ctx := context.Background()
	tenantA, tenantB := uuid.New(), uuid.New()

	cat, err := svc.Create(ctx, tenantB, domain.CreateRequest{Name: "Billing"}, "alice")
	require.NoError(t, err)
	h.Events.Reset()

	err = svc.Delete(ctx, tenantA, cat.ID)
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)

	stored, err := svc.Get(ctx, tenantB, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Billing", stored.Name)
	assert.Empty(t, h.Events.Envelopes())
}

func TestSameNameAllowedAcrossTenants(t *testing.T) {
	h := lifecycletest.New(t, &domain.KbCategory{})
	svc := service.New(h.Deps)
	ctx := context.Background()

	for _, tenant := range []uuid.UUID{uuid.New(), uuid.New()} {
		_, err := svc.Create(ctx, tenant, domain.CreateRequest{Name: "FAQ"}, "alice")
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestUpdateDescription(t *testing.T) {
	h := lifecycletest.New(t, &domain.KbCategory{})
	svc := service.New(h.Deps)
	ctx := context.Background()
	tenant := uuid.New()

	cat, err := svc.Create(ctx, tenant, domain.CreateRequest{Name: "FAQ"}, "alice")
	require.NoError(t, err)
	assert.True(t, cat.IsActive)

	desc := "Frequently asked"
	updated, err := svc.Update(ctx, tenant, cat.ID, domain.UpdateRequest{Description: &desc}, "bob")
	require.NoError(t, err)
	assert.Equal(t, desc, *updated.Description)

	blank := " "
	_, err = svc.Update(ctx, tenant, cat.ID, domain.UpdateRequest{Name: &blank}, "bob")
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}
