package observability

import (
	"testing"

	"github.com/smallbiznis/crm/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigFromApplicationConfig(t *testing.T) {
	cfg := LoadConfig(config.Config{
		AppName:      "crm",
		AppVersion:   "1.2.3",
		Environment:  " production ",
		OTLPEndpoint: "collector:4317",
		Telemetry: config.TelemetryConfig{
			LogLevel:      "warn",
			LogFormat:     "console",
			OtelEnabled:   true,
			OtelProtocol:  "http",
			SamplingRatio: 0.5,
		},
	})

	assert.Equal(t, "crm", cfg.ServiceName)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "collector:4317", cfg.OtelExporterEndpoint)
	assert.Equal(t, "http", cfg.OtelExporterProtocol)
	assert.Equal(t, 0.5, cfg.OtelSamplingRatio)
	assert.False(t, cfg.Debug())
}

func TestDebug(t *testing.T) {
	assert.True(t, Config{LogLevel: "debug", Environment: "production"}.Debug())
	assert.True(t, Config{LogLevel: "info", Environment: "Test"}.Debug())
	assert.False(t, Config{LogLevel: "info", Environment: "staging"}.Debug())
}
