package memory

import (
	"context"
	"slices"

	"github.com/ablemap/ablemap/internal/domain"
)

func (s *Store) Create(_ context.Context, f *domain.Feedback) (*domain.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextFeedback++
	cp := *f
	cp.ID = s.nextFeedback
	cp.FeedbackDetails = slices.Clone(f.FeedbackDetails)
	cp.CreatedAt = s.now()
	s.feedback = append(s.feedback, &cp)

	out := cp
	return &out, nil
}

// FeedbackCount returns how many feedback entries were stored.
func (s *Store) FeedbackCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.feedback)
}
