package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sourcegraph/conc/iter"

	"github.com/ablemap/ablemap/internal/httpserver/deps"
)

// checkTimeout bounds each component ping.
const checkTimeout = 2 * time.Second

type componentStatus struct {
	OK            bool   `json:"ok"`
	ReportsLoaded *int   `json:"reports_loaded,omitempty"`
	LastReload    string `json:"last_reload,omitempty"`
	Mode          string `json:"mode,omitempty"`
	Impact        string `json:"impact,omitempty"`
	Error         string `json:"error,omitempty"`
	LatencyMillis int64  `json:"latency_ms"`

	name     string
	critical bool
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// runChecks pings every component concurrently, each under checkTimeout.
func runChecks(ctx context.Context, checks []deps.Check) []componentStatus {
	return iter.Map(checks, func(c *deps.Check) componentStatus {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		defer cancel()

		start := time.Now()
		err := c.Ping(cctx)
		st := componentStatus{
			OK:            err == nil,
			Mode:          "optimal",
			LatencyMillis: time.Since(start).Milliseconds(),
			name:          c.Name,
			critical:      c.Critical,
		}
		if err != nil {
			st.Mode = "degraded"
			st.Impact = c.Impact
			st.Error = err.Error()
		}
		return st
	})
}

// Infra reports every backing component plus the accessibility importer.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses := runChecks(r.Context(), d.Checks)

		components := make(map[string]componentStatus, len(statuses)+1)
		for _, st := range statuses {
			components[st.name] = st
		}
		if d.ReloadStatus != nil {
			components["accessibility"] = importerStatus(r.Context(), d)
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     overallStatus(statuses, components),
			Components: components,
		})
	}
}

func importerStatus(ctx context.Context, d deps.Deps) componentStatus {
	rs := d.ReloadStatus()
	st := componentStatus{OK: rs.Err == nil, Mode: "file", LastReload: "never"}
	if !rs.LastReload.IsZero() {
		st.LastReload = rs.LastReload.Format("2006-01-02 15:04:05")
	}
	if rs.Err != nil {
		st.Impact = "serving previously imported reports"
		st.Error = rs.Err.Error()
	}

	// The store count is the truth; the last import may have been partial.
	if d.Reports != nil {
		if n, err := d.Reports.Count(ctx); err == nil {
			st.ReportsLoaded = &n
		}
	}
	return st
}

// overallStatus: "critical" when a critical check fails, "degraded" when
// anything else fails, "ok" otherwise.
func overallStatus(statuses []componentStatus, components map[string]componentStatus) string {
	status := "ok"
	for _, st := range statuses {
		if st.OK {
			continue
		}
		if st.critical {
			return "critical"
		}
		status = "degraded"
	}
	if imp, ok := components["accessibility"]; ok && !imp.OK {
		status = "degraded"
	}
	return status
}
