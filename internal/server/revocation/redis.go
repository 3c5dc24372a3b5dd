package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/chyrp/internal/logging"
)

const keyPrefix = "chyrp:revoked:"

// cmdable is the subset of redis.Cmdable used here.
type cmdable interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps revocations as expiring keys so Redis drops them once
// the token is dead.
type RedisStore struct {
	rdb cmdable
	log logging.Logger
}

func NewRedisStore(rdb redis.Cmdable, log logging.Logger) *RedisStore {
	return &RedisStore{rdb: rdb, log: log.With("module", "revocation")}
}

// Dial connects to addr and pings it.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func (s *RedisStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.Set(ctx, keyPrefix+jti, 1, ttl).Err(); err != nil {
		s.log.Error(ctx, "redis SET failed", "jti", jti, "error", err)
		return fmt.Errorf("revoke %s: %w", jti, err)
	}
	s.log.Debug(ctx, "token revoked", "jti", jti, "ttl", ttl)
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation %s: %w", jti, err)
	}
	return n > 0, nil
}
