package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ablemap/ablemap/internal/domain"
	"github.com/ablemap/ablemap/internal/logger"
)

// SubjectCache is the short-lived credential -> subject cache (Redis in production).
type SubjectCache interface {
	GetCachedSubject(ctx context.Context, credential string) (domain.Subject, bool, error)
	CacheSubject(ctx context.Context, credential string, subject domain.Subject, ttl time.Duration) error
}

// Resolver maps credentials to subjects and internal users.
//
// Concurrent lookups of one credential share a single provider call.
type Resolver struct {
	provider Provider
	users    domain.UserStore
	cache    SubjectCache // nil disables caching
	ttl      time.Duration
	group    singleflight.Group
	log      logger.Logger
	now      func() time.Time
}

func NewResolver(provider Provider, users domain.UserStore, cache SubjectCache, ttl time.Duration, log logger.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		users:    users,
		cache:    cache,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

// Resolve verifies credential, using the cache when possible.
func (r *Resolver) Resolve(ctx context.Context, credential string) (domain.Subject, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return domain.Subject{}, domain.ErrAuthentication
	}

	if r.cache != nil {
		subject, ok, err := r.cache.GetCachedSubject(ctx, credential)
		switch {
		case err != nil:
			r.log.Warn("subject cache lookup failed, asking provider", logger.Error(err))
		case ok && !r.expired(subject):
			return subject, nil
		}
	}

	v, err, _ := r.group.Do(credential, func() (any, error) {
		// Shared by every waiter; one caller going away must not fail the others.
		callCtx := context.WithoutCancel(ctx)
		subject, err := r.provider.Verify(callCtx, credential)
		if err != nil {
			return domain.Subject{}, err
		}
		if ttl := r.cacheTTL(subject); r.cache != nil && ttl > 0 {
			if err := r.cache.CacheSubject(callCtx, credential, subject, ttl); err != nil {
				r.log.Warn("failed to cache subject", logger.Error(err))
			}
		}
		return subject, nil
	})
	if err != nil {
		return domain.Subject{}, err
	}
	return v.(domain.Subject), nil
}

// cacheTTL never lets a cached subject outlive its credential.
func (r *Resolver) cacheTTL(subject domain.Subject) time.Duration {
	if subject.ExpiresAt.IsZero() {
		return r.ttl
	}
	return min(r.ttl, subject.ExpiresAt.Sub(r.now()))
}

func (r *Resolver) expired(subject domain.Subject) bool {
	return !subject.ExpiresAt.IsZero() && !r.now().Before(subject.ExpiresAt)
}

// ResolveUser returns the internal user id linked to credential.
func (r *Resolver) ResolveUser(ctx context.Context, credential string) (int64, error) {
	u, err := r.User(ctx, credential)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

// User returns the internal user linked to credential.
func (r *Resolver) User(ctx context.Context, credential string) (*domain.User, error) {
	subject, err := r.Resolve(ctx, credential)
	if err != nil {
		return nil, err
	}
	return r.users.GetByAuth(ctx, subject.Provider, subject.ID)
}

// Provision links credential to an internal user, creating it on first login.
func (r *Resolver) Provision(ctx context.Context, credential string) (*domain.User, bool, error) {
	subject, err := r.Resolve(ctx, credential)
	if err != nil {
		return nil, false, err
	}

	// Nicknames are captured on first login only.
	nickname := ""
	_, err = r.users.GetByAuth(ctx, subject.Provider, subject.ID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		nickname = subject.Nickname
		if nickname == "" {
			nickname = defaultNickname(subject.ID)
		}
	case err != nil:
		return nil, false, err
	}

	u, created, err := r.users.Upsert(ctx, subject.Provider, subject.ID, nickname)
	if err != nil {
		return nil, false, err
	}
	if created {
		r.log.Info("user provisioned",
			logger.UserID(u.ID),
			logger.String("provider", subject.Provider))
	}
	return u, created, nil
}

// defaultNickname is "사용자_" followed by the last 4 characters of the provider id.
func defaultNickname(providerID string) string {
	tail := providerID
	if r := []rune(providerID); len(r) > 4 {
		tail = string(r[len(r)-4:])
	}
	return "사용자_" + tail
}
