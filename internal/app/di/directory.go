// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	diradapters "account_backend/internal/feature/directory/adapters"
	dirusecase "account_backend/internal/feature/directory/usecase"
	"account_backend/internal/platform/cache"
)

// NewUniversityRepository creates a UniversityRepository implementation.
// If Redis is available, the gorm repository is wrapped with a read-through cache.
func NewUniversityRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration) dirusecase.UniversityRepository {
	repo := diradapters.NewUniversityRepository(db)
	if rdb != nil {
		return cache.NewCachingUniversityRepository(rdb, ttl, repo, "universities")
	}
	return repo
}
