package postgres

import (
	"context"

	"github.com/ablemap/ablemap/internal/domain"
)

func (f *Feedback) Create(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error) {
	details := fb.FeedbackDetails
	if details == nil {
		details = []string{}
	}

	out := *fb
	err := f.pool.QueryRow(ctx, `
		INSERT INTO feedback (satisfaction_level, feedback_details, user_agent, device_id, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		fb.SatisfactionLevel, details, fb.UserAgent, fb.DeviceID, fb.UserID,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, domain.NewStorageError("feedback.create", err)
	}
	return &out, nil
}
