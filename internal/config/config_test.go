package config

import (
	"strings"
	"testing"
	"time"
)

func validTestConfig() *Config {
	return &Config{
		Env:                     "test",
		HTTPPort:                "8080",
		DatabaseURL:             "postgres://localhost/flags",
		JWTSecret:               strings.Repeat("s", 32),
		MutationRateLimitPerMin: 60,
		DependentsCacheTTL:      30 * time.Second,
		OTELTraceSamplingRatio:  1.0,
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/flags")
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("unexpected default port: %s", cfg.HTTPPort)
	}
	if cfg.MutationRateLimitPerMin != 60 {
		t.Fatalf("unexpected default rate limit: %d", cfg.MutationRateLimitPerMin)
	}
	if cfg.DependentsCacheTTL != 30*time.Second {
		t.Fatalf("unexpected default cache TTL: %v", cfg.DependentsCacheTTL)
	}
	if cfg.OTELTracingEnabled || cfg.OTELMetricsEnabled {
		t.Fatal("otel exporters must default to disabled")
	}
}

func TestLoadRejectsBadCacheTTL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/flags")
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("DEPENDENTS_CACHE_TTL", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error for DEPENDENTS_CACHE_TTL")
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := validTestConfig()
	cfg.DatabaseURL = ""
	cfg.JWTSecret = "short"
	cfg.MutationRateLimitPerMin = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure")
	}
	for _, want := range []string{"DATABASE_URL", "JWT_SECRET", "MUTATION_RATE_LIMIT_PER_MIN"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("validation error missing %s: %v", want, err)
		}
	}
}

func TestValidateSamplingRatioBounds(t *testing.T) {
	cfg := validTestConfig()
	cfg.OTELTraceSamplingRatio = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected sampling ratio rejection")
	}
}
