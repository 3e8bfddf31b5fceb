package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle/lifecycletest"
	"github.com/smallbiznis/crm/internal/ticketform/domain"
	"github.com/smallbiznis/crm/internal/ticketform/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketFormListIsNewestFirst(t *testing.T) {
	h := lifecycletest.New(t, &domain.TicketForm{})
	svc := service.New(h.Deps)
	ctx := context.Background()
	tenant := uuid.New()

	for _, name := range []string{"Bug report", "Feature request", "Refund"} {
		_, err := svc.Create(ctx, tenant, domain.CreateRequest{Name: name}, "alice")
		require.NoError(t, err)
		h.Clock.Advance(time.Minute)
	}

	inactive := false
	_, err := svc.Create(ctx, tenant, domain.CreateRequest{Name: "Legacy", IsActive: &inactive}, "alice")
	require.NoError(t, err)

	active := true
	page, err := svc.List(ctx, domain.ListRequest{TenantID: &tenant, IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	names := make([]string, 0, len(page.Items))
	for _, f := range page.Items {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Refund", "Feature request", "Bug report"}, names)
}
