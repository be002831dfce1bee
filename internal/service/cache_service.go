package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/eduplatform-api/pkg/cache"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
)

// CacheRepository abstracts persistence for cached counters.
type CacheRepository interface {
	GetCounts(ctx context.Context, key string) (map[string]int, error)
	SetCounts(ctx context.Context, key string, counts map[string]int, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CountLoader computes member counts from the store of record.
type CountLoader func(ctx context.Context) (map[string]int, error)

// CacheService fronts the member count aggregate with a TTL cache. Concurrent
// misses share a single load, and a load that overlaps an invalidation is not
// written back.
type CacheService struct {
	repo    CacheRepository
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	enabled bool
	loads   singleflight.Group

	writes     sync.Mutex
	generation uint64
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, ttl time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, ttl: ttl, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// MemberCounts returns the cached counts, running load on a miss. Cache
// failures fall through to load; only load errors are returned.
func (s *CacheService) MemberCounts(ctx context.Context, load CountLoader) (map[string]int, error) {
	if !s.Enabled() {
		return load(ctx)
	}

	start := time.Now()
	counts, err := s.repo.GetCounts(ctx, cache.MemberCountKey)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err == nil {
		return counts, nil
	}
	if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("member count cache read failed", zap.Error(err))
	}

	v, err, shared := s.loads.Do(cache.MemberCountKey, func() (interface{}, error) {
		generation := s.currentGeneration()
		fresh, err := load(ctx)
		if err != nil {
			return nil, err
		}
		s.store(ctx, generation, fresh)
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("member count load shared")
	}
	return v.(map[string]int), nil
}

// InvalidateMemberCounts drops the cached counts. Failures are logged and returned.
func (s *CacheService) InvalidateMemberCounts(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	s.writes.Lock()
	s.generation++
	s.writes.Unlock()
	s.loads.Forget(cache.MemberCountKey)
	if err := s.repo.Delete(ctx, cache.MemberCountKey); err != nil {
		s.logger.Warn("member count cache invalidate failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *CacheService) currentGeneration() uint64 {
	s.writes.Lock()
	defer s.writes.Unlock()
	return s.generation
}

// store writes counts loaded at generation unless an invalidation happened since.
func (s *CacheService) store(ctx context.Context, generation uint64, counts map[string]int) {
	s.writes.Lock()
	defer s.writes.Unlock()
	if generation != s.generation {
		s.logger.Debug("member count load outdated by invalidation, not cached")
		return
	}
	start := time.Now()
	err := s.repo.SetCounts(ctx, cache.MemberCountKey, counts, s.ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("member count cache write failed", zap.Error(err))
	}
}
