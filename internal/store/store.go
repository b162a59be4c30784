package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrStoreUnavailable = errors.New("ephemeral store unavailable")

// Store is the TTL-keyed value capability backing sessions, activation codes
// and phone verification codes. Keys are opaque strings; values are JSON.
// Entries disappear only through TTL expiry; there is no delete path.
type Store struct {
	redis *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{redis: client}
}

// Put writes value under key with the given lifetime. Overlapping writes to
// the same key are last-writer-wins.
func (s *Store) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := s.redis.Set(ctx, key, encoded, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Get decodes the value under key into dest. The boolean reports presence;
// an expired or never-written key is simply absent, not an error.
func (s *Store) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}
