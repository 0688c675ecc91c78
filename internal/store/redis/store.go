package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSubjectTTL is how long a verified credential stays cached.
const DefaultSubjectTTL = 5 * time.Minute

// Store handles Redis operations for the identity cache.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
