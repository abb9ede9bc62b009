package app

import (
	"context"
	"log/slog"
	"net/http"

	"go-flag-graph-service/internal/config"
	"go-flag-graph-service/internal/observability"
)

type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Server  *http.Server
	Runtime *observability.Runtime
}

func New(cfg *config.Config, logger *slog.Logger, server *http.Server, runtime *observability.Runtime) *App {
	return &App{Config: cfg, Logger: logger, Server: server, Runtime: runtime}
}

// Shutdown stops the HTTP server and flushes telemetry.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Server.Shutdown(ctx)
	if rErr := a.Runtime.Shutdown(ctx); err == nil {
		err = rErr
	}
	return err
}
