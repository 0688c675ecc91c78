package memory

import (
	"context"
	"sort"

	"github.com/ablemap/ablemap/internal/domain"
)

func (s *Store) AddMember(_ context.Context, placeID, placeName string, userID int64) (*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	b, ok := s.bookmarks[placeID]
	if !ok {
		s.nextBookmark++
		b = &domain.Bookmark{
			ID:        s.nextBookmark,
			PlaceID:   placeID,
			PlaceName: placeName,
			UserIDs:   []int64{userID},
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.bookmarks[placeID] = b
		return b.Clone(), nil
	}

	if b.HasMember(userID) {
		return nil, domain.ErrDuplicateBookmark
	}

	b.UserIDs = append(b.UserIDs, userID)
	b.UpdatedAt = now
	return b.Clone(), nil
}

func (s *Store) RemoveMember(_ context.Context, placeID string, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookmarks[placeID]
	if !ok || !b.HasMember(userID) {
		return nil
	}

	kept := make([]int64, 0, len(b.UserIDs)-1)
	for _, id := range b.UserIDs {
		if id != userID {
			kept = append(kept, id)
		}
	}

	if len(kept) == 0 {
		delete(s.bookmarks, placeID)
		return nil
	}

	b.UserIDs = kept
	b.UpdatedAt = s.now()
	return nil
}

func (s *Store) ListForUser(_ context.Context, userID int64) ([]*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Bookmark, 0)
	for _, b := range s.bookmarks {
		if b.HasMember(userID) {
			out = append(out, b.Clone())
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.Before(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *Store) IsMember(_ context.Context, placeID string, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookmarks[placeID]
	return ok && b.HasMember(userID), nil
}

func (s *Store) DeleteOrphans(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for placeID, b := range s.bookmarks {
		if len(b.UserIDs) == 0 {
			delete(s.bookmarks, placeID)
			deleted++
		}
	}
	return deleted, nil
}

// Bookmark returns a copy of the record for placeID, if any.
func (s *Store) Bookmark(placeID string) (*domain.Bookmark, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookmarks[placeID]
	if !ok {
		return nil, false
	}
	return b.Clone(), true
}

// CountBookmarks returns the number of records.
func (s *Store) CountBookmarks() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.bookmarks)
}
