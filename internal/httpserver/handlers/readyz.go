package handlers

import (
	"net/http"

	"github.com/ablemap/ablemap/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool     `json:"ready"`
	Failed []string `json:"failed,omitempty"`
}

// Readyz answers 503 while any critical component fails its ping.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var failed []string
		for _, st := range runChecks(r.Context(), d.Checks) {
			if st.critical && !st.OK {
				failed = append(failed, st.name)
			}
		}

		if len(failed) > 0 {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false, Failed: failed})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
