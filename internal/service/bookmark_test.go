package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ablemap/ablemap/internal/domain"
	"github.com/ablemap/ablemap/internal/logger"
	"github.com/ablemap/ablemap/internal/store/memory"
)

// tokenResolver maps fixed tokens to user ids.
type tokenResolver map[string]int64

func (r tokenResolver) ResolveUser(_ context.Context, credential string) (int64, error) {
	switch credential {
	case "":
		return 0, domain.ErrAuthentication
	case "orphan":
		return 0, domain.ErrUserNotFound
	case "down":
		return 0, domain.ErrIdentityUnavailable
	}
	id, ok := r[credential]
	if !ok {
		return 0, domain.ErrAuthentication
	}
	return id, nil
}

// spyStore fails the test when called.
type spyStore struct {
	domain.BookmarkStore
	t *testing.T
}

func (s spyStore) AddMember(context.Context, string, string, int64) (*domain.Bookmark, error) {
	s.t.Fatal("store must not be reached on auth failure")
	return nil, nil
}

func (s spyStore) RemoveMember(context.Context, string, int64) error {
	s.t.Fatal("store must not be reached on auth failure")
	return nil
}

func (s spyStore) ListForUser(context.Context, int64) ([]*domain.Bookmark, error) {
	s.t.Fatal("store must not be reached on auth failure")
	return nil, nil
}

func (s spyStore) IsMember(context.Context, string, int64) (bool, error) {
	s.t.Fatal("store must not be reached on auth failure")
	return false, nil
}

type brokenStore struct{ domain.BookmarkStore }

func (brokenStore) IsMember(context.Context, string, int64) (bool, error) {
	return false, &domain.StorageError{Op: "is_member", Err: errors.New("conn reset")}
}

func newService(store domain.BookmarkStore) *BookmarkService {
	return NewBookmarkService(tokenResolver{"alice": 1, "bob": 2}, store, logger.New("error", false))
}

func TestBookmarkFlow(t *testing.T) {
	svc := newService(memory.New())
	ctx := context.Background()

	// First user bookmarks, second user joins.
	b, err := svc.Bookmark(ctx, "alice", "P1", "Cafe")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, b.UserIDs)

	b, err = svc.Bookmark(ctx, "bob", "P1", "Cafe")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, b.UserIDs)

	// Duplicate is a conflict, not a storage failure.
	_, err = svc.Bookmark(ctx, "alice", "P1", "Cafe")
	assert.True(t, errors.Is(err, domain.ErrDuplicateBookmark))

	assert.True(t, svc.IsBookmarked(ctx, "alice", "P1"))

	require.NoError(t, svc.Unbookmark(ctx, "alice", "P1"))
	require.NoError(t, svc.Unbookmark(ctx, "alice", "P1"), "remove is idempotent")
	assert.False(t, svc.IsBookmarked(ctx, "alice", "P1"))

	list, err := svc.BookmarksForCaller(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []int64{2}, list[0].UserIDs)

	require.NoError(t, svc.Unbookmark(ctx, "bob", "P1"))
	list, err = svc.BookmarksForCaller(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAuthFailuresShortCircuit(t *testing.T) {
	svc := newService(spyStore{t: t})
	ctx := context.Background()

	tests := []struct {
		name       string
		credential string
		want       error
	}{
		{name: "missing credential", credential: "", want: domain.ErrAuthentication},
		{name: "invalid credential", credential: "mallory", want: domain.ErrAuthentication},
		{name: "no linked user", credential: "orphan", want: domain.ErrUserNotFound},
		{name: "provider outage", credential: "down", want: domain.ErrIdentityUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Bookmark(ctx, tt.credential, "P1", "Cafe")
			assert.True(t, errors.Is(err, tt.want), "Bookmark: %v", err)

			err = svc.Unbookmark(ctx, tt.credential, "P1")
			assert.True(t, errors.Is(err, tt.want), "Unbookmark: %v", err)

			_, err = svc.BookmarksForCaller(ctx, tt.credential)
			assert.True(t, errors.Is(err, tt.want), "BookmarksForCaller: %v", err)

			assert.False(t, svc.IsBookmarked(ctx, tt.credential, "P1"))
		})
	}
}

func TestIsBookmarkedSwallowsStorageErrors(t *testing.T) {
	svc := newService(brokenStore{})
	assert.False(t, svc.IsBookmarked(context.Background(), "alice", "P1"))
}
