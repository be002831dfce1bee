package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
)

// presenceField marks a populated count hash so an empty class set still
// reads as a hit.
const presenceField = "_"

// CacheRepository keeps per-class counters in Redis hashes. A nil client turns
// every read into a miss and every write into a no-op.
type CacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCacheRepository constructs a cache repository.
func NewCacheRepository(client *redis.Client, logger *zap.Logger) *CacheRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheRepository{client: client, logger: logger}
}

// GetCounts reads the code -> count hash stored at key.
func (r *CacheRepository) GetCounts(ctx context.Context, key string) (map[string]int, error) {
	if r.client == nil {
		return nil, appErrors.ErrCacheMiss
	}

	raw, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", key, err)
	}
	if _, ok := raw[presenceField]; !ok {
		return nil, appErrors.ErrCacheMiss
	}

	counts := make(map[string]int, len(raw)-1)
	for code, value := range raw {
		if code == presenceField {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			r.logger.Warn("dropping corrupt count hash", zap.String("key", key), zap.String("code", code), zap.Error(err))
			_ = r.client.Del(ctx, key).Err()
			return nil, appErrors.ErrCacheMiss
		}
		counts[code] = n
	}
	return counts, nil
}

// SetCounts replaces the hash at key with counts and sets its expiry.
func (r *CacheRepository) SetCounts(ctx context.Context, key string, counts map[string]int, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	fields := make([]interface{}, 0, 2*len(counts)+2)
	fields = append(fields, presenceField, 1)
	for code, n := range counts {
		fields = append(fields, code, n)
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields...)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis store counts %s: %w", key, err)
	}
	return nil
}

// Delete removes the given keys.
func (r *CacheRepository) Delete(ctx context.Context, keys ...string) error {
	if r.client == nil || len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete %v: %w", keys, err)
	}
	return nil
}

// Ping checks connectivity, reporting success when caching is disabled.
func (r *CacheRepository) Ping(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying Redis connection if present.
func (r *CacheRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
