package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ablemap/ablemap/internal/domain"
	"github.com/ablemap/ablemap/internal/logger"
	"github.com/ablemap/ablemap/internal/validation"
)

func TestBearer(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		if got := bearer(req); got != tt.want {
			t.Errorf("bearer(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestWriteErrorStatus(t *testing.T) {
	log := logger.New("error", false)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"authentication", fmt.Errorf("verify: %w", domain.ErrAuthentication), http.StatusUnauthorized},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"report not found", domain.ErrReportNotFound, http.StatusNotFound},
		{"duplicate", domain.ErrDuplicateBookmark, http.StatusConflict},
		{"identity down", domain.ErrIdentityUnavailable, http.StatusServiceUnavailable},
		{"validation", &validation.Error{Fields: []validation.FieldError{{Message: "poiId is required"}}}, http.StatusBadRequest},
		{"timeout", fmt.Errorf("list: %w", context.DeadlineExceeded), http.StatusServiceUnavailable},
		{"storage", domain.NewStorageError("add member", errors.New("conn reset")), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, log, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}
