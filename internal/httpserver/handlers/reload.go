package handlers

import (
	"net/http"

	"github.com/ablemap/ablemap/internal/httpserver/deps"
	"github.com/ablemap/ablemap/internal/logger"
)

// Reload triggers a manual reimport of the accessibility reports file.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ReloadTrigger == nil {
			writeMessage(w, http.StatusNotFound, "accessibility importer disabled")
			return
		}

		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual accessibility reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeMessage(w, http.StatusAccepted, "✅ Reload triggered successfully")
		default:
			d.Logger.Warn("accessibility reload already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			writeMessage(w, http.StatusTooManyRequests, "⏳ Reload already in progress, please wait")
		}
	}
}
