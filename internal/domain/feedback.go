package domain

import "time"

const (
	Satisfied    = "satisfied"
	Dissatisfied = "dissatisfied"
)

// Feedback is an anonymous or signed-in satisfaction vote about the service.
type Feedback struct {
	ID                int64
	SatisfactionLevel string // Satisfied | Dissatisfied
	FeedbackDetails   []string
	UserAgent         string
	DeviceID          string
	UserID            string // provider-scoped id, empty when anonymous
	CreatedAt         time.Time
}
