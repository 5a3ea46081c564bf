package lock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCompareAndDeleteScript deletes KEYS[1] only when its current value
// matches ARGV[1]. Running it server-side keeps the compare and the delete in
// one atomic step.
// KEYS[1] = lock key
// ARGV[1] = expected owner token
var redisCompareAndDeleteScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore implements Store using Redis. SETNX-with-TTL covers SetIfAbsent
// and a Lua script covers CompareAndDelete.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new store backed by Redis.
func NewRedisStore(addr string, password string, db int) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: rdb}
}

// NewRedisStoreFromClient wraps an already configured client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// SetIfAbsent maps to SET key value NX EX ttl.
func (s *RedisStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, value, ttl).Result()
}

// CompareAndDelete executes the Lua script and reports whether a delete
// happened.
func (s *RedisStore) CompareAndDelete(ctx context.Context, key, value string) (bool, error) {
	res, err := redisCompareAndDeleteScript.Run(ctx, s.client, []string{key}, value).Result()
	if err != nil {
		return false, err
	}

	deleted, ok := res.(int64)
	return ok && deleted == 1, nil
}

// Exists maps to EXISTS key.
func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
