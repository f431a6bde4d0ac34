package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// clearIfScript deletes KEYS[1] only while it holds ARGV[1].
var clearIfScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore keeps the credential in Redis under <prefix>access_token.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisStore builds a store on an existing client.
func NewRedisStore(client redis.Cmdable, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, key: keyPrefix + StorageKey}
}

func (s *RedisStore) Get(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get credential: %w", err)
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, credential string) error {
	if err := s.client.Set(ctx, s.key, credential, 0).Err(); err != nil {
		return fmt.Errorf("redis set credential: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis clear credential: %w", err)
	}
	return nil
}

func (s *RedisStore) ClearIf(ctx context.Context, expected string) (bool, error) {
	if expected == "" {
		return false, nil
	}
	deleted, err := clearIfScript.Run(ctx, s.client, []string{s.key}, expected).Int()
	if err != nil {
		return false, fmt.Errorf("redis clear credential: %w", err)
	}
	return deleted > 0, nil
}

// Key returns the redis key in use.
func (s *RedisStore) Key() string {
	return s.key
}
