package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/ablemap/ablemap/internal/httpserver/deps"
	"github.com/ablemap/ablemap/internal/httpserver/handlers"
)

func init() {
	Register(GroupPublic, registerHealth)
	Register(GroupOps, registerOps)
}

func registerHealth(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
}

func registerOps(r chi.Router, d deps.Deps) {
	r.Get("/readyz", handlers.Readyz(d))
	r.Get("/infra", handlers.Infra(d))
	r.Get("/metrics", handlers.Metrics(d))
}
