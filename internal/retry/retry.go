// Package retry waits for a backing service to answer a ping, with
// exponential backoff capped by MaxWait and an overall deadline.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/ablemap/ablemap/internal/logger"
)

// Policy defines connection retry behavior.
type Policy struct {
	ConnectTimeout time.Duration // Total time allowed for connection attempts (ex: 30s)
	RetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	MaxWait        time.Duration // max wait between retries (ex: 10s)
	PingTimeout    time.Duration // timeout for each ping attempt (ex: 2s)
	WarnThreshold  int           // warn after this many attempts
}

// PingFunc checks the remote once.
type PingFunc func(ctx context.Context) error

// Validate ensures all required configuration values are valid.
func (p Policy) Validate() error {
	if p.ConnectTimeout <= 0 {
		return fmt.Errorf("ConnectTimeout must be > 0, got %v", p.ConnectTimeout)
	}
	if p.RetryInterval <= 0 {
		return fmt.Errorf("RetryInterval must be > 0, got %v", p.RetryInterval)
	}
	if p.MaxWait <= 0 {
		return fmt.Errorf("MaxWait must be > 0, got %v", p.MaxWait)
	}
	if p.PingTimeout <= 0 {
		return fmt.Errorf("PingTimeout must be > 0, got %v", p.PingTimeout)
	}
	if p.WarnThreshold < 0 {
		return fmt.Errorf("WarnThreshold must be >= 0, got %d", p.WarnThreshold)
	}
	return nil
}

// attemptLogger logs connection progress for one component ("redis", "postgres").
type attemptLogger struct {
	log       logger.Logger
	component string
	target    string
}

func (al *attemptLogger) start(timeout time.Duration) {
	al.log.Info("connecting to "+al.component,
		logger.String("target", al.target),
		logger.Duration("timeout", timeout))
}

func (al *attemptLogger) success(attempts int, elapsed time.Duration) {
	if attempts > 1 {
		al.log.Warn("connected to "+al.component+" after retry",
			logger.String("target", al.target),
			logger.Int("attempts", attempts),
			logger.Duration("elapsed", elapsed))
		return
	}
	al.log.Info("connected to "+al.component, logger.String("target", al.target))
}

func (al *attemptLogger) timeout(attempts int, timeout time.Duration, err error) {
	al.log.Error(al.component+" unavailable - failed to connect after timeout",
		logger.String("target", al.target),
		logger.Int("attempts", attempts),
		logger.Duration("timeout", timeout),
		logger.Error(err))
}

func (al *attemptLogger) retry(attempt int, remaining, nextRetry time.Duration, warnThreshold int, err error) {
	fields := []logger.Field{
		logger.String("target", al.target),
		logger.Int("attempt", attempt),
		logger.Duration("next_retry_in", nextRetry),
		logger.Error(err),
	}
	switch {
	case remaining < 10*time.Second:
		al.log.Error(al.component+" still down - retrying but timeout approaching",
			append(fields, logger.Duration("remaining", remaining))...)
	case attempt <= warnThreshold:
		al.log.Warn(al.component+" connection failed, retrying", fields...)
	default:
		al.log.Error(al.component+" still unavailable - connection attempts failing", fields...)
	}
}

// Connect pings until success, the policy deadline, or ctx cancellation.
// target is only used for logs and must not contain credentials.
func Connect(ctx context.Context, component, target string, p Policy, ping PingFunc, log logger.Logger) error {
	if err := p.Validate(); err != nil {
		log.Error("invalid "+component+" connect policy", logger.Error(err))
		return err
	}

	al := &attemptLogger{log: log, component: component, target: target}

	ctx, cancel := context.WithTimeout(ctx, p.ConnectTimeout)
	defer cancel()

	al.start(p.ConnectTimeout)
	attempt := 0
	wait := p.RetryInterval

	for {
		attempt++

		pingCtx, pingCancel := context.WithTimeout(ctx, p.PingTimeout)
		err := ping(pingCtx)
		pingCancel()

		if err == nil {
			al.success(attempt, p.ConnectTimeout-timeLeft(ctx))
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			al.timeout(attempt, p.ConnectTimeout, err)
			return fmt.Errorf("%s unavailable at %s after %d attempts (timeout: %v): %w",
				component, target, attempt, p.ConnectTimeout, err)

		case <-timer.C:
			al.retry(attempt, timeLeft(ctx), wait, p.WarnThreshold, err)
			// Exponential backoff with cap
			wait *= 2
			if wait > p.MaxWait {
				wait = p.MaxWait
			}
		}
	}
}

// timeLeft returns the remaining time before context deadline.
func timeLeft(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	return time.Until(deadline)
}
