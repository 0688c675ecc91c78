package client

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ablemap/ablemap/internal/logger"
)

// DefaultRequestTimeout bounds every request the cache sends.
const DefaultRequestTimeout = 10 * time.Second

type State int

const (
	StateUnauthenticated State = iota
	StateLoading
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	default:
		return "unknown"
	}
}

// Cache is the single shared copy of the signed-in user's bookmarks.
//
// Every mutation is followed by a full refetch; status is always recomputed
// from bookmarks, never patched. Subscribers are called after each state
// transition, outside the lock. Operations on the same place must be
// serialized by the caller.
type Cache struct {
	api        *APIClient
	session    Session
	timeout    time.Duration
	onAuthLost func()
	log        logger.Logger

	group singleflight.Group

	mu        sync.Mutex
	state     State // Unauthenticated or Populated; loading is tracked apart
	inflight  int   // fetches of the current generation still running
	bookmarks []Bookmark
	status    map[string]bool
	gen       uint64 // bumped on every clear; stale fetches are dropped
	started   uint64 // sequence of the last fetch sent
	applied   uint64 // sequence of the fetch the snapshot comes from
	subs      map[uint64]func()
	nextSub   uint64
}

type Option func(*Cache)

// WithRequestTimeout overrides DefaultRequestTimeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithAuthLostHandler is called once each time the server rejects the credential.
func WithAuthLostHandler(fn func()) Option {
	return func(c *Cache) { c.onAuthLost = fn }
}

func WithLogger(log logger.Logger) Option {
	return func(c *Cache) { c.log = log }
}

func NewCache(api *APIClient, session Session, opts ...Option) *Cache {
	c := &Cache{
		api:     api,
		session: session,
		timeout: DefaultRequestTimeout,
		log:     logger.NewNop(),
		status:  map[string]bool{},
		subs:    map[uint64]func(){},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ─────────────────────────────
// Observers
// ─────────────────────────────

// Subscribe registers fn and returns the handle that removes it.
func (c *Cache) Subscribe(fn func()) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// snapshotSubsLocked copies the subscribers so they can run without c.mu.
func (c *Cache) snapshotSubsLocked() []func() {
	fns := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	return fns
}

func notify(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}

// ─────────────────────────────
// Reads (never touch the network)
// ─────────────────────────────

func (c *Cache) IsBookmarked(placeID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status[placeID]
}

// Bookmarks returns a copy, oldest update first as served.
func (c *Cache) Bookmarks() []Bookmark {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Bookmark, len(c.bookmarks))
	for i, b := range c.bookmarks {
		b.UserIDs = slices.Clone(b.UserIDs)
		out[i] = b
	}
	return out
}

func (c *Cache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.bookmarks)
}

func (c *Cache) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

func (c *Cache) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight > 0 {
		return StateLoading
	}
	return c.state
}

// ─────────────────────────────
// Transitions
// ─────────────────────────────

// Reset drops state and subscribers without notifying anyone.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.clearLocked()
	c.subs = map[uint64]func(){}
	c.mu.Unlock()
}

func (c *Cache) clearLocked() {
	c.state = StateUnauthenticated
	c.inflight = 0
	c.bookmarks = nil
	c.status = map[string]bool{}
	c.gen++
}

func (c *Cache) clear() {
	c.mu.Lock()
	c.clearLocked()
	fns := c.snapshotSubsLocked()
	c.mu.Unlock()
	notify(fns)
}

// authLost runs when the server answered 401: the credential is dropped,
// state cleared, subscribers notified once and the handler fired.
func (c *Cache) authLost() {
	if err := c.session.Clear(); err != nil {
		c.log.Warn("failed to clear rejected credential", logger.Error(err))
	}
	c.log.Info("bookmark cache cleared, credential rejected")
	c.clear()
	if c.onAuthLost != nil {
		c.onAuthLost()
	}
}

// HandleAuthChange reacts to sign-in (refetch) and sign-out (clear, no I/O).
func (c *Cache) HandleAuthChange(ctx context.Context, authenticated bool) error {
	if !authenticated {
		c.clear()
		return nil
	}
	return c.Refresh(ctx)
}

// Refresh replaces the snapshot with the server's list. Concurrent calls
// share one request.
func (c *Cache) Refresh(ctx context.Context) error {
	return c.refresh(ctx, false)
}

// refresh with fresh set starts a new request instead of joining one that
// may have been answered before the caller's last write.
func (c *Cache) refresh(ctx context.Context, fresh bool) error {
	credential, ok := c.session.Credential()
	if !ok {
		c.clear()
		return ErrNotAuthenticated
	}

	if fresh {
		c.group.Forget("refresh")
	}
	_, err, _ := c.group.Do("refresh", func() (any, error) {
		return nil, c.fetch(ctx, credential)
	})
	return err
}

func (c *Cache) fetch(ctx context.Context, credential string) error {
	c.mu.Lock()
	c.inflight++
	c.started++
	gen, seq := c.gen, c.started
	fns := c.snapshotSubsLocked()
	c.mu.Unlock()
	notify(fns)

	// Shared by every Refresh waiter; one of them going away must not fail the rest.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	list, err := c.api.ListBookmarks(rctx, credential)
	if errors.Is(err, ErrUnauthorized) {
		c.authLost()
		return err
	}

	c.mu.Lock()
	if c.gen != gen {
		// Cleared while in flight (sign-out or 401 elsewhere): the result is stale.
		c.mu.Unlock()
		if err != nil {
			return err
		}
		return ErrNotAuthenticated
	}
	c.inflight--
	// An older fetch finishing late must not replace a newer snapshot.
	if err == nil && seq > c.applied {
		c.bookmarks = list
		c.status = project(list)
		c.state = StatePopulated
		c.applied = seq
	}
	fns = c.snapshotSubsLocked()
	c.mu.Unlock()
	notify(fns)

	if err != nil {
		c.log.Warn("bookmark refresh failed, keeping previous snapshot", logger.Error(err))
	}
	return err
}

// project derives the placeID lookup table from bookmarks.
func project(list []Bookmark) map[string]bool {
	status := make(map[string]bool, len(list))
	for _, b := range list {
		status[b.PlaceID] = true
	}
	return status
}

// Add bookmarks placeID then refetches. It is never retried: on a failure
// other than 401 the state is left untouched and the caller decides.
func (c *Cache) Add(ctx context.Context, placeID, placeName string) error {
	return c.mutate(ctx, "add", placeID, func(ctx context.Context, credential string) error {
		_, err := c.api.AddBookmark(ctx, credential, placeID, placeName)
		return err
	})
}

// Remove unbookmarks placeID then refetches. Removal is idempotent on the
// server, so callers may retry it.
func (c *Cache) Remove(ctx context.Context, placeID, placeName string) error {
	return c.mutate(ctx, "remove", placeID, func(ctx context.Context, credential string) error {
		if err := c.api.RemoveBookmark(ctx, credential, placeID); err != nil {
			return err
		}
		c.log.Debug("bookmark removed", logger.String("place_name", placeName))
		return nil
	})
}

func (c *Cache) mutate(ctx context.Context, op, placeID string, call func(context.Context, string) error) error {
	credential, ok := c.session.Credential()
	if !ok {
		return ErrNotAuthenticated
	}

	rctx, cancel := context.WithTimeout(ctx, c.timeout)
	err := call(rctx, credential)
	cancel()

	switch {
	case errors.Is(err, ErrUnauthorized):
		c.authLost()
		return err
	case err != nil:
		c.log.Debug("bookmark mutation failed",
			logger.String("op", op),
			logger.PlaceID(placeID),
			logger.Error(err))
		return err
	}
	return c.refresh(ctx, true)
}
