// Package router assembles the chi mux for the flag API.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"go-flag-graph-service/internal/http/handler"
	"go-flag-graph-service/internal/http/middleware"
	"go-flag-graph-service/internal/http/response"
	"go-flag-graph-service/internal/security"
)

// Dependencies carries everything the router needs. The rate limiter
// guards mutations only; reads are unthrottled.
type Dependencies struct {
	FlagHandler          *handler.FlagHandler
	Verifier             *security.TokenVerifier
	Logger               *slog.Logger
	MutationRateLimitRPM int
}

func New(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		response.JSON(w, req, http.StatusOK, map[string]string{"status": "ok"})
	})

	limiter := middleware.NewMutationRateLimiter(deps.MutationRateLimitRPM)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Auth(deps.Verifier))

		api.Route("/flags", func(flags chi.Router) {
			flags.Get("/", deps.FlagHandler.ListFlags)
			flags.Get("/{id}", deps.FlagHandler.GetFlag)
			flags.Get("/{id}/dependents", deps.FlagHandler.Dependents)

			flags.Group(func(mut chi.Router) {
				mut.Use(limiter.Handler)
				mut.Post("/", deps.FlagHandler.CreateFlag)
				mut.Put("/{id}", deps.FlagHandler.UpdateFlag)
				mut.Delete("/{id}", deps.FlagHandler.DeleteFlag)
			})
		})
	})

	return r
}
