package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/ablemap/ablemap/internal/httpserver/deps"
	"github.com/ablemap/ablemap/internal/httpserver/handlers"
	"github.com/ablemap/ablemap/internal/httpserver/mw"
)

func init() { Register(GroupAPI, registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	// Add and remove share one budget per client IP.
	limit := mw.RateLimit(writeLimit(d))

	r.Route("/bookmarks", func(r chi.Router) {
		r.Get("/user", handlers.ListBookmarks(d))
		r.Get("/{poiId}/status", handlers.BookmarkStatus(d))
		r.With(limit).Post("/", handlers.CreateBookmark(d))
		r.With(limit).Delete("/{poiId}", handlers.DeleteBookmark(d))
	})
}

func writeLimit(d deps.Deps) mw.RateLimitConfig {
	return mw.RateLimitConfig{
		Burst:             d.RateLimitBurst,
		RefillPerIPPerMin: d.RateLimitPerMinute,
		MaxEntries:        10_000,
		TrustProxy:        d.TrustProxy,
		Logger:            d.Logger,
	}
}
