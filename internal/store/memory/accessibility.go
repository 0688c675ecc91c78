package memory

import (
	"context"

	"github.com/ablemap/ablemap/internal/domain"
)

func (s *Store) UpsertMany(_ context.Context, reports []*domain.AccessibilityReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, r := range reports {
		cp := *r
		if existing, ok := s.reports[r.PlaceID]; ok {
			cp.CreatedAt = existing.CreatedAt
		} else {
			cp.CreatedAt = now
		}
		cp.UpdatedAt = now
		s.reports[r.PlaceID] = &cp
	}
	return nil
}

func (s *Store) Get(_ context.Context, placeID string) (*domain.AccessibilityReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[placeID]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.reports), nil
}
