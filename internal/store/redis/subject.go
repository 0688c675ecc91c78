package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/ablemap/ablemap/internal/domain"
)

// CacheSubject stores credential -> verified subject.
func (s *Store) CacheSubject(ctx context.Context, credential string, subject domain.Subject, ttl time.Duration) error {
	payload, err := json.Marshal(subject)
	if err != nil {
		return fmt.Errorf("failed to encode subject: %w", err)
	}
	if err := s.client.Set(ctx, SubjectKey(credential), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache subject: %w", err)
	}
	return nil
}

// GetCachedSubject returns ok=false on a cache miss.
func (s *Store) GetCachedSubject(ctx context.Context, credential string) (domain.Subject, bool, error) {
	raw, err := s.client.Get(ctx, SubjectKey(credential)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Subject{}, false, nil // Cache miss
		}
		return domain.Subject{}, false, fmt.Errorf("failed to get cached subject: %w", err)
	}

	var subject domain.Subject
	if err := json.Unmarshal(raw, &subject); err != nil {
		return domain.Subject{}, false, fmt.Errorf("failed to decode cached subject: %w", err)
	}
	return subject, true, nil
}
