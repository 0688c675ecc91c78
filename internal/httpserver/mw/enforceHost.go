package mw

import (
	"net/http"
	"strings"

	"github.com/ablemap/ablemap/internal/logger"
	"github.com/ablemap/ablemap/internal/utils"
)

// EnforceHost allows requests only if the Host header (port stripped, case
// folded) matches one of the allowed hosts. Supports wildcard patterns like
// "*.example.com". If allowedHosts is empty, it acts as a passthrough.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	patterns := make([]string, 0, len(allowedHosts))
	for _, h := range allowedHosts {
		patterns = append(patterns, strings.ToLower(h))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := strings.ToLower(utils.ParseHostNoPort(r.Host))

			for _, pattern := range patterns {
				if matchHost(host, pattern) {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Warn("host rejected",
				logger.String("host", r.Host),
				logger.String("path", r.URL.Path))
			reject(w, http.StatusForbidden, "forbidden host")
		})
	}
}

// matchHost checks if host matches pattern (supports wildcard *.example.com)
func matchHost(host, pattern string) bool {
	if host == pattern {
		return true
	}

	// *.example.com matches sub.example.com but not example.com
	if strings.HasPrefix(pattern, "*.") {
		return strings.HasSuffix(host, pattern[1:])
	}

	return false
}
