package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/ports"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "walletauth:session:"

// RedisStore keeps the session credential in Redis under a key scoped to the origin
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisStore creates a new Redis store
func NewRedisStore(client redis.Cmdable, origin, storageKey string) *RedisStore {
	return &RedisStore{
		client: client,
		key:    redisKeyPrefix + origin + ":" + storageKey,
	}
}

var _ ports.SessionStore = (*RedisStore)(nil)

// Load returns the stored credential, if any
func (s *RedisStore) Load(ctx context.Context) (core.Credential, bool, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to load session: %w", err)
	}

	cred := core.Credential(val)
	return cred, cred.Valid(), nil
}

// Save replaces the stored credential. The key never expires.
func (s *RedisStore) Save(ctx context.Context, cred core.Credential) error {
	if !cred.Valid() {
		return core.ErrInvalidArgument
	}

	if err := s.client.Set(ctx, s.key, string(cred), 0).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}
