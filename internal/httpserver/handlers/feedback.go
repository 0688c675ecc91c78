package handlers

import (
	"net/http"
	"strings"

	"github.com/ablemap/ablemap/internal/domain"
	"github.com/ablemap/ablemap/internal/httpserver/deps"
	"github.com/ablemap/ablemap/internal/logger"
	"github.com/ablemap/ablemap/internal/validation"
)

type feedbackRequest struct {
	SatisfactionLevel string   `json:"satisfactionLevel" validate:"required,oneof=satisfied dissatisfied"`
	FeedbackDetails   []string `json:"feedbackDetails" validate:"max=10,dive,max=200"`
	DeviceID          string   `json:"deviceId" validate:"max=64"`
}

type feedbackResponse struct {
	Message    string `json:"message"`
	FeedbackID int64  `json:"feedbackId"`
}

// CreateFeedback serves POST /api/feedback. Anonymous votes are accepted;
// a valid credential only tags the vote with the provider user id.
func CreateFeedback(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req feedbackRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		req.SatisfactionLevel = strings.TrimSpace(req.SatisfactionLevel)
		if req.DeviceID == "" {
			req.DeviceID = r.Header.Get("X-Device-ID")
		}
		if err := validation.Struct(req); err != nil {
			writeError(w, d.Logger, r, err)
			return
		}

		fb := &domain.Feedback{
			SatisfactionLevel: req.SatisfactionLevel,
			FeedbackDetails:   req.FeedbackDetails,
			UserAgent:         r.UserAgent(),
			DeviceID:          req.DeviceID,
		}
		if cred := bearer(r); cred != "" {
			subject, err := d.Identity.Resolve(r.Context(), cred)
			if err == nil {
				fb.UserID = subject.ID
			} else {
				d.Logger.Debug("feedback stored anonymously", logger.Error(err))
			}
		}

		saved, err := d.Feedback.Create(r.Context(), fb)
		if err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, feedbackResponse{
			Message:    "feedback received",
			FeedbackID: saved.ID,
		})
	}
}
