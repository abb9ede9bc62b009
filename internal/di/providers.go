package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"go-flag-graph-service/internal/app"
	"go-flag-graph-service/internal/config"
	"go-flag-graph-service/internal/database"
	"go-flag-graph-service/internal/depgraph"
	"go-flag-graph-service/internal/http/handler"
	"go-flag-graph-service/internal/http/router"
	"go-flag-graph-service/internal/observability"
	"go-flag-graph-service/internal/repository"
	"go-flag-graph-service/internal/security"
	"go-flag-graph-service/internal/service"
)

var ConfigSet = wire.NewSet(provideConfig)

var ObservabilitySet = wire.NewSet(
	observability.NewLogger,
	provideRuntime,
)

var DatabaseSet = wire.NewSet(provideOpenDB)

var RepositorySet = wire.NewSet(
	repository.NewFlagRepository,
	provideValidator,
)

var ServiceSet = wire.NewSet(
	provideCacheStore,
	provideFlagService,
)

var HTTPSet = wire.NewSet(
	handler.NewFlagHandler,
	provideTokenVerifier,
	provideRouterDependencies,
	router.New,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

func provideConfig() (*config.Config, error) {
	return config.Load()
}

func provideRuntime(cfg *config.Config, logger *slog.Logger) (*observability.Runtime, error) {
	return observability.InitRuntime(context.Background(), cfg, logger)
}

func provideOpenDB(cfg *config.Config) (*gorm.DB, error) {
	return database.Open(cfg)
}

func provideValidator(repo repository.FlagRepository) *depgraph.Validator {
	return depgraph.NewValidator(repo)
}

// provideCacheStore prefers Redis when configured and falls back to the
// in-process store so a single-node deployment needs no extra infra.
func provideCacheStore(cfg *config.Config, logger *slog.Logger) service.DependentsCacheStore {
	if cfg.RedisURL == "" {
		return service.NewInMemoryDependentsCacheStore()
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid redis url, using in-memory dependents cache", "error", err)
		return service.NewInMemoryDependentsCacheStore()
	}
	return service.NewRedisDependentsCacheStore(redis.NewClient(opts), "")
}

func provideFlagService(repo repository.FlagRepository, validator *depgraph.Validator, cache service.DependentsCacheStore, cfg *config.Config, logger *slog.Logger) service.FlagService {
	return service.NewFlagService(repo, validator, cache, cfg.DependentsCacheTTL, logger)
}

func provideTokenVerifier(cfg *config.Config) *security.TokenVerifier {
	return security.NewTokenVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
}

func provideRouterDependencies(flagHandler *handler.FlagHandler, verifier *security.TokenVerifier, logger *slog.Logger, cfg *config.Config) router.Dependencies {
	return router.Dependencies{
		FlagHandler:          flagHandler,
		Verifier:             verifier,
		Logger:               logger,
		MutationRateLimitRPM: cfg.MutationRateLimitPerMin,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:        ":" + cfg.HTTPPort,
		Handler:     h,
		ReadTimeout: 10 * time.Second,
	}
}

// MigrationRunner opens the database and applies the schema, for the
// migrate subcommand.
type MigrationRunner struct {
	db *gorm.DB
}

func NewMigrationRunner(db *gorm.DB) *MigrationRunner {
	return &MigrationRunner{db: db}
}

func (m *MigrationRunner) Run() error {
	return database.Migrate(m.db)
}
