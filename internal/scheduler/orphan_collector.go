package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/ablemap/ablemap/internal/domain"
	"github.com/ablemap/ablemap/internal/logger"
)

// DefaultGCInterval is how often the orphan sweep runs when unset.
const DefaultGCInterval = 24 * time.Hour

// OrphanCollector periodically deletes bookmark records left without members.
// The stores never leave such rows behind themselves; the sweep covers rows
// written by other tools.
type OrphanCollector struct {
	store    domain.BookmarkStore
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewOrphanCollector(store domain.BookmarkStore, log logger.Logger, interval time.Duration) *OrphanCollector {
	if interval <= 0 {
		interval = DefaultGCInterval
	}

	return &OrphanCollector{
		store:    store,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic garbage collection process
func (oc *OrphanCollector) Start(ctx context.Context) error {
	// Run immediately on start
	if _, err := oc.Collect(ctx); err != nil {
		oc.logger.Warn("initial orphan collection failed", logger.Error(err))
	}

	ticker := time.NewTicker(oc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := oc.Collect(ctx); err != nil {
					oc.logger.Error("orphan collection failed", logger.Error(err))
				}
			case <-oc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the collector. Safe to call more than once.
func (oc *OrphanCollector) Stop() {
	oc.stopOnce.Do(func() { close(oc.stopCh) })
}

// Collect runs one sweep and returns how many records were deleted.
func (oc *OrphanCollector) Collect(ctx context.Context) (int, error) {
	deleted, err := oc.store.DeleteOrphans(ctx)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		oc.logger.Info("orphan bookmarks deleted", logger.Int("count", deleted))
	} else {
		oc.logger.Debug("no orphan bookmarks found")
	}
	return deleted, nil
}
