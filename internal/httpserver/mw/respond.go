package mw

import (
	"net/http"

	json "github.com/goccy/go-json"
)

// reject writes the API error body so browsers and the CLI see the same
// shape from middleware as from handlers.
func reject(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
