package memory

import (
	"sync"
	"time"

	"github.com/ablemap/ablemap/internal/domain"
)

// Store keeps every record in process memory. It backs ABLEMAP_STORE=memory
// and the unit tests of the layers above it.
//
// Each read-modify-write holds mu for its whole duration, so membership
// mutations on one place are serialized.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	bookmarks    map[string]*domain.Bookmark // PlaceID -> Bookmark
	nextBookmark int64

	users    map[int64]*domain.User
	byAuth   map[string]int64 // provider + "\x00" + providerID -> user id
	nextUser int64

	feedback     []*domain.Feedback
	nextFeedback int64

	reports map[string]*domain.AccessibilityReport // PlaceID -> report
}

type Option func(*Store)

// WithClock replaces time.Now, mostly for deterministic ordering in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		now:       time.Now,
		bookmarks: make(map[string]*domain.Bookmark),
		users:     make(map[int64]*domain.User),
		byAuth:    make(map[string]int64),
		reports:   make(map[string]*domain.AccessibilityReport),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	_ domain.BookmarkStore      = (*Store)(nil)
	_ domain.UserStore          = (*Store)(nil)
	_ domain.FeedbackStore      = (*Store)(nil)
	_ domain.AccessibilityStore = (*Store)(nil)
)
