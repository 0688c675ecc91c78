package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/ablemap/ablemap/internal/httpserver/deps"
	"github.com/ablemap/ablemap/internal/httpserver/handlers"
	"github.com/ablemap/ablemap/internal/httpserver/mw"
)

func init() { Register(GroupAPI, registerAPI) }

// registerAPI mounts users, accessibility reports and feedback.
func registerAPI(r chi.Router, d deps.Deps) {
	r.Get("/users/me", handlers.Me(d))
	r.Post("/users/me", handlers.ProvisionMe(d))

	r.Get("/places/{poiId}/accessibility", handlers.PlaceAccessibility(d))

	r.With(mw.RateLimit(writeLimit(d))).Post("/feedback", handlers.CreateFeedback(d))
}
