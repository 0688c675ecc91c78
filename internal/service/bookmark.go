// Package service holds the authorization boundary in front of the stores.
package service

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ablemap/ablemap/internal/domain"
	"github.com/ablemap/ablemap/internal/logger"
)

// CallerResolver maps a credential to an internal user id.
type CallerResolver interface {
	ResolveUser(ctx context.Context, credential string) (int64, error)
}

var bookmarkMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ablemap",
	Name:      "bookmark_mutations_total",
	Help:      "Bookmark add/remove attempts by outcome.",
}, []string{"op", "outcome"})

func init() {
	prometheus.MustRegister(bookmarkMutations)
}

// BookmarkService resolves the caller before touching the store. A failed
// resolution never reaches the store.
type BookmarkService struct {
	resolver CallerResolver
	store    domain.BookmarkStore
	log      logger.Logger
}

func NewBookmarkService(resolver CallerResolver, store domain.BookmarkStore, log logger.Logger) *BookmarkService {
	return &BookmarkService{resolver: resolver, store: store, log: log}
}

// ResolveCaller returns the internal user id for credential.
func (s *BookmarkService) ResolveCaller(ctx context.Context, credential string) (int64, error) {
	return s.resolver.ResolveUser(ctx, credential)
}

// Bookmark adds the caller to placeID's members, creating the record if needed.
func (s *BookmarkService) Bookmark(ctx context.Context, credential, placeID, placeName string) (*domain.Bookmark, error) {
	userID, err := s.ResolveCaller(ctx, credential)
	if err != nil {
		return nil, err
	}

	b, err := s.store.AddMember(ctx, placeID, placeName, userID)
	bookmarkMutations.WithLabelValues("add", outcome(err)).Inc()
	if err != nil {
		if !errors.Is(err, domain.ErrDuplicateBookmark) {
			s.log.Error("failed to add bookmark",
				logger.PlaceID(placeID),
				logger.UserID(userID),
				logger.Error(err))
		}
		return nil, err
	}

	s.log.Debug("bookmark added",
		logger.PlaceID(placeID),
		logger.UserID(userID),
		logger.Int("members", len(b.UserIDs)))
	return b, nil
}

// Unbookmark removes the caller from placeID's members. Removing a
// bookmark that doesn't exist succeeds.
func (s *BookmarkService) Unbookmark(ctx context.Context, credential, placeID string) error {
	userID, err := s.ResolveCaller(ctx, credential)
	if err != nil {
		return err
	}

	err = s.store.RemoveMember(ctx, placeID, userID)
	bookmarkMutations.WithLabelValues("remove", outcome(err)).Inc()
	if err != nil {
		s.log.Error("failed to remove bookmark",
			logger.PlaceID(placeID),
			logger.UserID(userID),
			logger.Error(err))
		return err
	}
	return nil
}

// BookmarksForCaller lists the caller's bookmarks, oldest update first.
func (s *BookmarkService) BookmarksForCaller(ctx context.Context, credential string) ([]*domain.Bookmark, error) {
	userID, err := s.ResolveCaller(ctx, credential)
	if err != nil {
		return nil, err
	}
	return s.store.ListForUser(ctx, userID)
}

// IsBookmarked never fails: anonymous callers, unknown users and storage
// errors all read as false.
func (s *BookmarkService) IsBookmarked(ctx context.Context, credential, placeID string) bool {
	if credential == "" {
		return false
	}

	userID, err := s.ResolveCaller(ctx, credential)
	if err != nil {
		s.log.Debug("bookmark status for unresolved caller", logger.Error(err))
		return false
	}

	ok, err := s.store.IsMember(ctx, placeID, userID)
	if err != nil {
		s.log.Warn("failed to read bookmark status",
			logger.PlaceID(placeID),
			logger.Error(err))
		return false
	}
	return ok
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrDuplicateBookmark):
		return "duplicate"
	default:
		return "error"
	}
}
