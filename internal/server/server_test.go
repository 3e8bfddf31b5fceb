package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	aedomain "github.com/smallbiznis/crm/internal/automationexecution/domain"
	aeservice "github.com/smallbiznis/crm/internal/automationexecution/service"
	csatservice "github.com/smallbiznis/crm/internal/csatsurvey/service"
	gpservice "github.com/smallbiznis/crm/internal/groupprofile/service"
	icservice "github.com/smallbiznis/crm/internal/inboundchannel/service"
	kbaservice "github.com/smallbiznis/crm/internal/kbarticle/service"
	kbcdomain "github.com/smallbiznis/crm/internal/kbcategory/domain"
	kbcservice "github.com/smallbiznis/crm/internal/kbcategory/service"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/internal/lifecycle/lifecycletest"
	"github.com/smallbiznis/crm/internal/observability"
	shdomain "github.com/smallbiznis/crm/internal/stagehistory/domain"
	shservice "github.com/smallbiznis/crm/internal/stagehistory/service"
	macroservice "github.com/smallbiznis/crm/internal/supportmacro/service"
	viewservice "github.com/smallbiznis/crm/internal/supportview/service"
	formservice "github.com/smallbiznis/crm/internal/ticketform/service"
	tffservice "github.com/smallbiznis/crm/internal/ticketformfield/service"
	sladomain "github.com/smallbiznis/crm/internal/ticketslastate/domain"
	slaservice "github.com/smallbiznis/crm/internal/ticketslastate/service"
	"github.com/smallbiznis/crm/pkg/db"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	h      *lifecycletest.Harness
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	h := lifecycletest.New(t,
		&kbcdomain.KbCategory{},
		&sladomain.TicketSlaState{},
		&aedomain.AutomationActionExecution{},
		&shdomain.StageHistory{},
	)

	router := NewEngine(observability.Config{LogLevel: "info", Environment: "test"}, nil)
	s := NewServer(ServerParams{
		Engine:                 router,
		GroupProfileSvc:        gpservice.New(h.Deps),
		InboundChannelSvc:      icservice.New(h.Deps),
		KbArticleSvc:           kbaservice.New(h.Deps),
		KbCategorySvc:          kbcservice.New(h.Deps),
		SupportMacroSvc:        macroservice.New(h.Deps),
		SupportViewSvc:         viewservice.New(h.Deps),
		TicketFormSvc:          formservice.New(h.Deps),
		TicketFormFieldSvc:     tffservice.New(h.Deps),
		CsatSurveySvc:          csatservice.New(h.Deps),
		TicketSlaStateSvc:      slaservice.New(h.Deps),
		AutomationExecutionSvc: aeservice.New(h.Deps),
		StageHistorySvc:        shservice.New(h.Deps),
	})
	s.RegisterRoutes()
	return &testServer{h: h, router: router}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestTenantRoutesLifecycle(t *testing.T) {
	ts := newTestServer(t)
	tenant := uuid.New()
	base := "/tenants/" + tenant.String() + "/kb_categories"

	rec := ts.do(t, http.MethodPost, base, map[string]any{
		"name":      "Billing",
		"tenant_id": uuid.NewString(),
	}, "X-User", "  alice  ")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[kbcdomain.KbCategory](t, rec)
	assert.Equal(t, tenant, created.TenantID)
	assert.Equal(t, "alice", created.CreatedBy)
	assert.True(t, created.IsActive)

	item := base + "/" + created.ID.String()
	rec = ts.do(t, http.MethodPatch, item, map[string]any{"name": "Invoices"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[kbcdomain.KbCategory](t, rec)
	assert.Equal(t, "Invoices", updated.Name)
	assert.Equal(t, "anonymous", updated.UpdatedBy)

	rec = ts.do(t, http.MethodPut, item, map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[kbcdomain.KbCategory](t, rec).IsActive)

	rec = ts.do(t, http.MethodGet, base+"?limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[pagination.Envelope[kbcdomain.KbCategory]](t, rec)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 10, page.Limit)

	rec = ts.do(t, http.MethodDelete, item, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(t, http.MethodGet, item, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, []string{
		"crm.kb_category.created",
		"crm.kb_category.updated",
		"crm.kb_category.updated",
		"crm.kb_category.deleted",
	}, ts.h.Events.Types())
}

func TestOtherTenantSeesNotFound(t *testing.T) {
	ts := newTestServer(t)
	owner := uuid.New()

	rec := ts.do(t, http.MethodPost, "/tenants/"+owner.String()+"/kb_categories", map[string]any{"name": "Billing"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[kbcdomain.KbCategory](t, rec).ID.String()

	other := "/tenants/" + uuid.NewString() + "/kb_categories/" + id
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, other, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPatch, other, map[string]any{"name": "x"}).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, other, nil).Code)
}

func TestAdminCreateRejectsTenantMismatch(t *testing.T) {
	ts := newTestServer(t)
	asserted := uuid.New()

	rec := ts.do(t, http.MethodPost, "/admin/kb_categories?tenant_id="+asserted.String(), map[string]any{
		"tenant_id": uuid.NewString(),
		"name":      "Billing",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorResponse](t, rec)
	require.Len(t, body.Error.Errors, 1)
	assert.Equal(t, "tenant_id", body.Error.Errors[0].Field)
	assert.Equal(t, "tenant_mismatch", body.Error.Errors[0].Code)
	assert.EqualValues(t, 0, ts.h.Count(t, &kbcdomain.KbCategory{}))
	assert.Empty(t, ts.h.Events.Envelopes())

	rec = ts.do(t, http.MethodPost, "/admin/kb_categories", map[string]any{"name": "Billing"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/admin/kb_categories?tenant_id="+asserted.String(), map[string]any{
		"tenant_id": asserted.String(),
		"name":      "Billing",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, asserted, decode[kbcdomain.KbCategory](t, rec).TenantID)
}

func TestAdminItemRoutesRequireTenant(t *testing.T) {
	ts := newTestServer(t)
	tenant := uuid.New()

	rec := ts.do(t, http.MethodPost, "/admin/kb_categories", map[string]any{"tenant_id": tenant.String(), "name": "Billing"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[kbcdomain.KbCategory](t, rec).ID.String()

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/admin/kb_categories/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/admin/kb_categories/"+id+"?tenant_id="+uuid.NewString(), nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/admin/kb_categories/"+id+"?tenant_id="+tenant.String(), nil).Code)

	rec = ts.do(t, http.MethodGet, "/admin/kb_categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[pagination.Envelope[kbcdomain.KbCategory]](t, rec).Total)
}

func TestRequestValidation(t *testing.T) {
	ts := newTestServer(t)
	tenant := uuid.NewString()

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/tenants/not-a-uuid/kb_categories", nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/tenants/"+tenant+"/kb_categories/42", nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/tenants/"+tenant+"/kb_categories?offset=-1", nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/tenants/"+tenant+"/ticket_sla_states?ticket_id=x", nil).Code)

	rec := ts.do(t, http.MethodPost, "/tenants/"+tenant+"/kb_categories", map[string]any{"name": "  "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_name", decode[errorResponse](t, rec).Error.Errors[0].Code)
}

func TestUniqueViolationIsConflict(t *testing.T) {
	ts := newTestServer(t)
	base := "/tenants/" + uuid.NewString() + "/kb_categories"

	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, base, map[string]any{"name": "Billing"}).Code)
	rec := ts.do(t, http.MethodPost, base, map[string]any{"name": "Billing"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NotContains(t, strings.ToLower(rec.Body.String()), "unique")
}

func TestSlaStateRoutes(t *testing.T) {
	ts := newTestServer(t)
	tenant := uuid.New()
	ticket := uuid.New()

	rec := ts.do(t, http.MethodPost, "/tenants/"+tenant.String()+"/ticket_sla_states", map[string]any{"ticket_id": ticket.String()})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/admin/ticket_sla_states", map[string]any{
		"tenant_id": tenant.String(),
		"ticket_id": ticket.String(),
	}, "X-User", "sla-engine")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	path := "/tenants/" + tenant.String() + "/tickets/" + ticket.String() + "/sla_state"
	rec = ts.do(t, http.MethodPatch, path, map[string]any{"resolution_breached": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[sladomain.TicketSlaState](t, rec).ResolutionBreached)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, path, nil).Code)
	admin := "/admin/tickets/" + ticket.String() + "/sla_state?tenant_id=" + tenant.String()
	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, admin, nil).Code)
}

func TestAutomationExecutionRoutes(t *testing.T) {
	ts := newTestServer(t)
	tenant := uuid.NewString()
	base := "/tenants/" + tenant + "/automation_executions"

	rec := ts.do(t, http.MethodPost, base, map[string]any{
		"action_id":     uuid.NewString(),
		"entity_type":   "deal",
		"entity_id":     uuid.NewString(),
		"trigger_event": "stage_entered",
		"execution_key": "k-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	exec := decode[aedomain.AutomationActionExecution](t, rec)
	assert.Equal(t, aedomain.StatusPending, exec.Status)

	item := base + "/" + exec.ID.String()
	rec = ts.do(t, http.MethodPatch, item, map[string]any{"status": "FAILED", "error_message": "timeout"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPatch, item, map[string]any{"status": "SUCCEEDED"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_status_transition", decode[errorResponse](t, rec).Error.Errors[0].Code)

	rec = ts.do(t, http.MethodGet, base+"?status=FAILED", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[pagination.Envelope[aedomain.AutomationActionExecution]](t, rec).Total)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, item, nil).Code)
	assert.Contains(t, ts.h.Events.Types(), "crm.automation_action_execution.status_changed")
}

func TestStageHistoryRoutes(t *testing.T) {
	ts := newTestServer(t)
	tenant := uuid.NewString()
	deal := uuid.NewString()

	for i := 0; i < 2; i++ {
		rec := ts.do(t, http.MethodPost, "/tenants/"+tenant+"/stage_history", map[string]any{
			"entity_type": "deal",
			"entity_id":   deal,
			"source":      "ui",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := ts.do(t, http.MethodGet, "/tenants/"+tenant+"/stage_history/deal/"+deal, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[pagination.Envelope[shdomain.StageHistory]](t, rec)
	assert.EqualValues(t, 2, page.Total)
	assert.Len(t, page.Items, 2)

	rec = ts.do(t, http.MethodGet, "/tenants/"+tenant+"/stage_history/lead/"+deal, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[pagination.Envelope[shdomain.StageHistory]](t, rec).Items)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{"field", lifecycle.ErrTenantMismatch, http.StatusBadRequest, "validation_error"},
		{"not found", lifecycle.ErrNotFound, http.StatusNotFound, "not_found"},
		{"conflict", db.ErrConflict, http.StatusConflict, "conflict"},
		{"invalid data", db.ErrInvalidData, http.StatusUnprocessableEntity, "invalid_data"},
		{"page", pagination.ErrInvalidPage, http.StatusBadRequest, "validation_error"},
		{"internal", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.typ, payload.Type)
			assert.NotContains(t, payload.Message, "tcp")
		})
	}
}

func TestNormalizeActor(t *testing.T) {
	assert.Equal(t, "anonymous", normalizeActor("   "))
	assert.Equal(t, "bob", normalizeActor(" bob "))
	assert.Len(t, normalizeActor(strings.Repeat("x", 150)), 100)
}
