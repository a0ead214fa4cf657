// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"account_backend/internal/feature/directory/domain/entity"
	"account_backend/internal/feature/directory/usecase"
)

// CachingUniversityRepository decorates a UniversityRepository with Redis caching.
// Positive answers from the cache are trusted; a cached "absent" is confirmed
// against the inner repository, so a newly added university is never rejected.
type CachingUniversityRepository struct {
	inner     usecase.UniversityRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.UniversityRepository = (*CachingUniversityRepository)(nil)

// NewCachingUniversityRepository decorates inner with Redis caching.
// If ttl is 0, it defaults to 10 minutes. If namespace is empty, it uses "universities".
// A nil rdb bypasses the cache entirely.
func NewCachingUniversityRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UniversityRepository, namespace string) *CachingUniversityRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if namespace == "" {
		namespace = "universities"
	}
	return &CachingUniversityRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// ListAll returns every university, from the cache when possible.
func (c *CachingUniversityRepository) ListAll(ctx context.Context) ([]entity.University, error) {
	if c.rdb == nil {
		return c.inner.ListAll(ctx)
	}
	return cached(ctx, c, c.allKey(), c.inner.ListAll)
}

// ListRefs returns every university identity key, from the cache when possible.
func (c *CachingUniversityRepository) ListRefs(ctx context.Context) ([]uuid.UUID, error) {
	if c.rdb == nil {
		return c.inner.ListRefs(ctx)
	}
	return cached(ctx, c, c.refsKey(), c.inner.ListRefs)
}

// Exists reports whether id is a registered university.
func (c *CachingUniversityRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if c.rdb == nil {
		return c.inner.Exists(ctx, id)
	}

	refs, err := c.ListRefs(ctx)
	if err != nil {
		return false, err
	}
	if slices.Contains(refs, id) {
		return true, nil
	}

	ok, err := c.inner.Exists(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		// The cached list predates this university.
		c.Invalidate(ctx)
	}
	return ok, nil
}

// Invalidate drops every cached directory entry. Failures are logged and ignored.
func (c *CachingUniversityRepository) Invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, c.refsKey(), c.allKey()).Err(); err != nil {
		slog.Warn("failed to invalidate directory cache", "namespace", c.namespace, "error", err)
	}
}

func (c *CachingUniversityRepository) refsKey() string { return c.namespace + ":refs" }
func (c *CachingUniversityRepository) allKey() string  { return c.namespace + ":all" }

// cached reads key as JSON, falling back to load and storing its result on a miss.
func cached[T any](ctx context.Context, c *CachingUniversityRepository, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := load(ctx)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}
