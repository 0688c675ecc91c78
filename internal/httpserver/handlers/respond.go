package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/ablemap/ablemap/internal/domain"
	"github.com/ablemap/ablemap/internal/logger"
	"github.com/ablemap/ablemap/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeError maps domain errors to statuses. Anything unknown is a 500 and
// is logged; the client only sees a generic message.
func writeError(w http.ResponseWriter, log logger.Logger, r *http.Request, err error) {
	var verr *validation.Error
	switch {
	case errors.Is(err, domain.ErrAuthentication):
		writeMessage(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, "user not found")
	case errors.Is(err, domain.ErrReportNotFound):
		writeMessage(w, http.StatusNotFound, "accessibility report not found")
	case errors.Is(err, domain.ErrDuplicateBookmark):
		writeMessage(w, http.StatusConflict, "already bookmarked")
	case errors.Is(err, domain.ErrIdentityUnavailable):
		writeMessage(w, http.StatusServiceUnavailable, "identity provider unavailable, retry later")
	case errors.As(err, &verr):
		writeMessage(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("request timed out", logger.String("path", r.URL.Path), logger.Error(err))
		writeMessage(w, http.StatusServiceUnavailable, "request timed out")
	default:
		log.Error("request failed",
			logger.String("path", r.URL.Path),
			logger.Bool("storage", domain.IsStorage(err)),
			logger.Error(err))
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

// bearer returns the credential from "Authorization: Bearer <token>", or "".
func bearer(r *http.Request) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// decodeBody reads one JSON object into dst. Malformed bodies come back as
// *validation.Error so they map to 400.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &validation.Error{Fields: []validation.FieldError{{
			Field:   "body",
			Tag:     "json",
			Message: "request body must be a valid JSON object",
		}}}
	}
	return nil
}
