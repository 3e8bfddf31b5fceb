package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Telemetry TelemetryConfig
	Events    EventsConfig
}

// TelemetryConfig drives log output and otel export.
type TelemetryConfig struct {
	LogLevel      string
	LogFormat     string
	OtelEnabled   bool
	OtelProtocol  string
	SamplingRatio float64
}

// EventsConfig selects the lifecycle event transport.
type EventsConfig struct {
	Driver         string
	Exchange       string
	Producer       string
	SchemaVersion  int
	PublishTimeout time.Duration
	RelayInterval  time.Duration
	RelayBatchSize int
}

const (
	EventsDriverRedis  = "redis"
	EventsDriverOutbox = "outbox"
	EventsDriverLog    = "log"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	appName := getenv("APP_SERVICE", "crm")
	cfg := Config{
		AppName:           appName,
		AppVersion:        getenv("APP_VERSION", "0.1.0"),
		Environment:       getenv("ENVIRONMENT", "development"),
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		OTLPEndpoint:      getenv("OTEL_EXPORTER_OTLP_ENDPOINT", getenv("OTLP_ENDPOINT", "localhost:4317")),
		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "crm"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 10),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 50),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
		RedisAddr:         getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getenv("REDIS_PASSWORD", ""),
		RedisDB:           getenvInt("REDIS_DB", 0),
		Telemetry: TelemetryConfig{
			LogLevel:      lower(getenv("LOG_LEVEL", "info")),
			LogFormat:     lower(getenv("LOG_FORMAT", "json")),
			OtelEnabled:   getenvBool("OTEL_ENABLED", true),
			OtelProtocol:  lower(getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")),
			SamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
		},
		Events: EventsConfig{
			Driver:         normalizeDriver(getenv("EVENTS_DRIVER", EventsDriverRedis)),
			Exchange:       getenv("EVENTS_EXCHANGE", "crm"),
			Producer:       getenv("EVENTS_PRODUCER", appName),
			SchemaVersion:  getenvInt("EVENTS_SCHEMA_VERSION", 1),
			PublishTimeout: getenvDuration("EVENTS_PUBLISH_TIMEOUT", 5*time.Second),
			RelayInterval:  getenvDuration("EVENTS_RELAY_INTERVAL", 2*time.Second),
			RelayBatchSize: getenvInt("EVENTS_RELAY_BATCH_SIZE", 100),
		},
	}

	return cfg
}

func normalizeDriver(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case EventsDriverOutbox:
		return EventsDriverOutbox
	case EventsDriverLog:
		return EventsDriverLog
	default:
		return EventsDriverRedis
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func lower(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func getenvBool(key string, def bool) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
