package application

import (
	"context"

	"github.com/devbush/lecturenotes/internal/domain"
	"github.com/devbush/lecturenotes/internal/ports"
)

// CacheStats holds cache statistics
type CacheStats struct {
	Dir       string
	ItemCount int
	TotalSize int64
}

// CacheService handles cache management operations
type CacheService struct {
	cache ports.ArtifactStore
	jobs  *JobManager
}

// NewCacheService creates a new cache service
func NewCacheService(cache ports.ArtifactStore, jobs *JobManager) *CacheService {
	return &CacheService{cache: cache, jobs: jobs}
}

// Stats returns cache statistics
func (s *CacheService) Stats(ctx context.Context) (*CacheStats, error) {
	count, size, err := s.cache.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &CacheStats{
		Dir:       s.cache.Dir(),
		ItemCount: count,
		TotalSize: size,
	}, nil
}

// List returns the cached artifacts, newest first
func (s *CacheService) List(ctx context.Context) ([]ports.Artifact, error) {
	return s.cache.List(ctx)
}

// Clear removes all cache entries. It is refused while a job may still write to the cache.
func (s *CacheService) Clear(ctx context.Context) error {
	if s.jobs != nil && s.jobs.Busy() {
		return domain.ErrJobInProgress
	}
	return s.cache.Clear(ctx)
}

// Dir returns the cache directory path
func (s *CacheService) Dir() string {
	return s.cache.Dir()
}
