package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ablemap/ablemap/internal/domain"
	"github.com/ablemap/ablemap/internal/logger"
	"github.com/ablemap/ablemap/internal/sources/accessibility"
)

// AccessibilityReloader imports the accessibility reports file into the
// store at start, on every tick and on manual trigger.
type AccessibilityReloader struct {
	loader        *accessibility.Loader
	mapper        *accessibility.Mapper
	store         domain.AccessibilityStore
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}

	mu         sync.RWMutex
	lastReload time.Time
	lastCount  int
	lastErr    error
}

// ReloadStatus is a snapshot of the last import, for /infra.
type ReloadStatus struct {
	LastReload time.Time
	Loaded     int
	Err        error
}

func NewAccessibilityReloader(
	file string,
	store domain.AccessibilityStore,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *AccessibilityReloader {
	return &AccessibilityReloader{
		loader:        accessibility.NewLoader(file),
		mapper:        accessibility.NewMapper(),
		store:         store,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reload process
func (ar *AccessibilityReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := ar.Reload(ctx); err != nil {
		return fmt.Errorf("initial accessibility reload failed: %w", err)
	}

	ticker := time.NewTicker(ar.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := ar.Reload(ctx); err != nil {
					ar.logger.Error("failed to reload accessibility reports", logger.Error(err))
				}
			case <-ar.manualTrigger:
				ar.logger.Info("manual accessibility reload triggered")
				if err := ar.Reload(ctx); err != nil {
					ar.logger.Error("failed to reload accessibility reports", logger.Error(err))
				}
			case <-ar.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader. Safe to call more than once.
func (ar *AccessibilityReloader) Stop() {
	ar.stopOnce.Do(func() { close(ar.stopCh) })
}

// Reload loads the file and upserts every valid report.
func (ar *AccessibilityReloader) Reload(ctx context.Context) (err error) {
	defer func() {
		ar.mu.Lock()
		ar.lastErr = err
		ar.mu.Unlock()
	}()

	ar.logger.Info("reloading accessibility reports", logger.String("file", ar.loader.Path()))

	file, err := ar.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load accessibility reports: %w", err)
	}

	res, err := ar.mapper.MapReports(file)
	if err != nil {
		return fmt.Errorf("failed to map accessibility reports: %w", err)
	}
	if res.Skipped > 0 {
		ar.logger.Warn("skipped invalid accessibility entries", logger.Int("count", res.Skipped))
	}

	if err := ar.store.UpsertMany(ctx, res.Reports); err != nil {
		return fmt.Errorf("failed to store accessibility reports: %w", err)
	}

	ar.mu.Lock()
	ar.lastReload = time.Now()
	ar.lastCount = len(res.Reports)
	ar.mu.Unlock()

	ar.logger.Info("accessibility reports imported", logger.Int("count", len(res.Reports)))
	return nil
}

func (ar *AccessibilityReloader) Status() ReloadStatus {
	ar.mu.RLock()
	defer ar.mu.RUnlock()

	return ReloadStatus{LastReload: ar.lastReload, Loaded: ar.lastCount, Err: ar.lastErr}
}
