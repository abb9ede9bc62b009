package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env      string
	HTTPPort string

	DatabaseURL string
	RedisURL    string

	JWTIssuer   string
	JWTAudience string
	JWTSecret   string

	MutationRateLimitPerMin int
	DependentsCacheTTL      time.Duration

	LogLevel                 string
	OTELServiceName          string
	OTELEnvironment          string
	OTELTracingEnabled       bool
	OTELMetricsEnabled       bool
	OTELExporterOTLPEndpoint string
	OTELExporterOTLPInsecure bool
	OTELTraceSamplingRatio   float64
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		HTTPPort:                 getEnv("HTTP_PORT", "8080"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		JWTIssuer:                getEnv("JWT_ISSUER", "go-flag-graph-service"),
		JWTAudience:              getEnv("JWT_AUDIENCE", "go-flag-graph-service-api"),
		JWTSecret:                os.Getenv("JWT_SECRET"),
		MutationRateLimitPerMin:  getEnvInt("MUTATION_RATE_LIMIT_PER_MIN", 60),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		OTELServiceName:          getEnv("OTEL_SERVICE_NAME", "go-flag-graph-service"),
		OTELEnvironment:          getEnv("OTEL_ENVIRONMENT", "development"),
		OTELTracingEnabled:       getEnvBool("OTEL_TRACING_ENABLED", false),
		OTELMetricsEnabled:       getEnvBool("OTEL_METRICS_ENABLED", false),
		OTELExporterOTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		OTELExporterOTLPInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		OTELTraceSamplingRatio:   getEnvFloat("OTEL_TRACE_SAMPLING_RATIO", 1.0),
	}

	cacheTTL, err := time.ParseDuration(getEnv("DEPENDENTS_CACHE_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("parse DEPENDENTS_CACHE_TTL: %w", err)
	}
	cfg.DependentsCacheTTL = cacheTTL

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if len(c.JWTSecret) < 32 {
		errs = append(errs, "JWT_SECRET must be at least 32 chars")
	}
	if c.MutationRateLimitPerMin <= 0 {
		errs = append(errs, "MUTATION_RATE_LIMIT_PER_MIN must be > 0")
	}
	if c.DependentsCacheTTL < 0 {
		errs = append(errs, "DEPENDENTS_CACHE_TTL must not be negative")
	}
	if c.OTELTraceSamplingRatio < 0 || c.OTELTraceSamplingRatio > 1 {
		errs = append(errs, "OTEL_TRACE_SAMPLING_RATIO must be within [0, 1]")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
