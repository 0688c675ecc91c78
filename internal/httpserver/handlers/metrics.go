package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ablemap/ablemap/internal/httpserver/deps"
)

// Metrics exposes the default Prometheus registry.
func Metrics(_ deps.Deps) http.HandlerFunc {
	return promhttp.Handler().ServeHTTP
}
