// Package lifecycletest wires an Engine's dependencies against an in-memory
// sqlite database for package tests.
package lifecycletest

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/smallbiznis/crm/internal/clock"
	"github.com/smallbiznis/crm/internal/config"
	"github.com/smallbiznis/crm/internal/events"
	"github.com/smallbiznis/crm/internal/events/eventstest"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/pkg/telemetry"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Epoch = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type Harness struct {
	DB       *gorm.DB
	Clock    *clock.FakeClock
	Events   *eventstest.Recorder
	Metrics  *telemetry.Metrics
	Registry *prometheus.Registry
	Deps     lifecycle.Deps
}

// New opens a private database, migrates models and returns engine
// dependencies that publish into a Recorder.
func New(t *testing.T, models ...any) *Harness {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(models...))

	reg := prometheus.NewRegistry()
	metrics, err := telemetry.NewMetrics(reg)
	require.NoError(t, err)

	clk := clock.NewFakeClock(Epoch)
	rec := &eventstest.Recorder{}
	notifier := events.NewNotifier(events.NotifierParams{
		Config: config.Config{Events: config.EventsConfig{
			Exchange:       "crm",
			Producer:       "crm",
			SchemaVersion:  1,
			PublishTimeout: time.Second,
		}},
		Publisher: rec,
		Clock:     clk,
		Metrics:   metrics,
		Log:       zap.NewNop(),
	})

	return &Harness{
		DB:       conn,
		Clock:    clk,
		Events:   rec,
		Metrics:  metrics,
		Registry: reg,
		Deps: lifecycle.Deps{
			DB:       conn,
			Notifier: notifier,
			Clock:    clk,
			Metrics:  metrics,
			Log:      zap.NewNop(),
		},
	}
}

// Count returns the number of rows of model, across tenants.
func (h *Harness) Count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.DB.Model(model).Count(&n).Error)
	return n
}

// ChangedFields lists, sorted, the snapshot keys whose values differ between
// before and after. The update audit stamps are left out.
func ChangedFields(before, after map[string]any) []string {
	changed := []string{}
	for k, v := range after {
		if k == "updated_at" || k == "updated_by" {
			continue
		}
		if old, ok := before[k]; !ok || !reflect.DeepEqual(old, v) {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed
}

// Mutations reads crm_entity_mutations_total for one label set.
func (h *Harness) Mutations(t *testing.T, kind, action, outcome string) float64 {
	t.Helper()
	families, err := h.Registry.Gather()
	require.NoError(t, err)

	want := map[string]string{"kind": kind, "action": action, "outcome": outcome}
	for _, mf := range families {
		if mf.GetName() != "crm_entity_mutations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsMatch(m, want) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func labelsMatch(m *dto.Metric, want map[string]string) bool {
	if len(m.GetLabel()) != len(want) {
		return false
	}
	for _, lp := range m.GetLabel() {
		if want[lp.GetName()] != lp.GetValue() {
			return false
		}
	}
	return true
}
