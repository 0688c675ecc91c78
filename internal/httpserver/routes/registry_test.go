package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ablemap/ablemap/internal/httpserver/deps"
	"github.com/ablemap/ablemap/internal/logger"
)

func newTestRouter() chi.Router {
	r := chi.NewRouter()
	RegisterAll(r, deps.Deps{
		Logger:             logger.NewNop(),
		AllowedCIDRS:       []string{"10.0.0.0/8"},
		RateLimitBurst:     5,
		RateLimitPerMinute: 60,
	})
	return r
}

func TestRegisterAllMountsGroups(t *testing.T) {
	r := newTestRouter()

	got := map[string]bool{}
	err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		got[method+" "+route] = true
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	for _, want := range []string{
		"GET /healthz",
		"GET /readyz",
		"GET /infra",
		"GET /metrics",
		"POST /reload",
		"GET /api/bookmarks/user",
		"GET /api/bookmarks/{poiId}/status",
		"DELETE /api/bookmarks/{poiId}",
		"GET /api/users/me",
		"POST /api/users/me",
		"GET /api/places/{poiId}/accessibility",
		"POST /api/feedback",
	} {
		if !got[want] {
			t.Errorf("route %q not mounted", want)
		}
	}
	if got["GET /users/me"] {
		t.Error("api routes must only live under /api")
	}
}

func TestOpsGroupIsGuarded(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		remote string
		want   int
	}{
		{"healthz is public", http.MethodGet, "/healthz", "192.0.2.1:1234", http.StatusOK},
		{"readyz from outside", http.MethodGet, "/readyz", "192.0.2.1:1234", http.StatusForbidden},
		{"reload from outside", http.MethodPost, "/reload", "192.0.2.1:1234", http.StatusForbidden},
		{"readyz from allowed cidr", http.MethodGet, "/readyz", "10.1.2.3:1234", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.RemoteAddr = tt.remote
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
			}
		})
	}
}
