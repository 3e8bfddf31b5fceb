package observability

import (
	"strings"

	"github.com/smallbiznis/crm/internal/config"
)

// Config is the slice of the application config the logger, tracer and
// meter providers are built from.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64
}

func LoadConfig(cfg config.Config) Config {
	t := cfg.Telemetry
	return Config{
		ServiceName:          cfg.AppName,
		Environment:          strings.TrimSpace(cfg.Environment),
		Version:              cfg.AppVersion,
		LogLevel:             t.LogLevel,
		LogFormat:            t.LogFormat,
		OtelEnabled:          t.OtelEnabled,
		OtelExporterEndpoint: strings.TrimSpace(cfg.OTLPEndpoint),
		OtelExporterProtocol: t.OtelProtocol,
		OtelSamplingRatio:    t.SamplingRatio,
	}
}

// Debug enables verbose request logs and stack traces on errors. It is on
// for LOG_LEVEL=debug and in non-production environments.
func (c Config) Debug() bool {
	if c.LogLevel == "debug" {
		return true
	}
	switch strings.ToLower(c.Environment) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}
