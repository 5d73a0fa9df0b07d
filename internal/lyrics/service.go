package lyrics

import (
	"context"
	"fmt"
	"strings"

	"artistinfo/internal/cache"
	"artistinfo/internal/logger"
)

// Service serves lyrics lookups through a TTL cache: a hit returns
// the cached result without an outbound call, a miss performs one
// fetch and stores the result. The absent-marker (zero Result) is
// cached like a found result so unknown tracks are not re-queried
// within the TTL; fetch failures are never cached.
type Service struct {
	source Source
	cache  *cache.Cache[Result]
	logger *logger.Logger
}

// NewService creates a cached lyrics service over the given source.
func NewService(source Source, c *cache.Cache[Result], log *logger.Logger) *Service {
	return &Service{source: source, cache: c, logger: log}
}

// Lookup returns lyrics for the query, from cache when fresh. A query
// without artist or title yields the absent-marker without a fetch.
func (s *Service) Lookup(ctx context.Context, q Query) (Result, error) {
	if strings.TrimSpace(q.Artist) == "" || strings.TrimSpace(q.Title) == "" {
		return Result{}, nil
	}

	key := q.CacheKey()
	if result, ok := s.cache.Get(key); ok {
		s.logger.Debug("lyrics cache hit for %q / %q", q.Artist, q.Title)
		return result, nil
	}

	result, err := s.source.Fetch(ctx, q)
	if err != nil {
		return Result{}, fmt.Errorf("lyrics fetch failed: %w", err)
	}

	s.cache.Set(key, result)
	return result, nil
}

// ClearCache drops all cached lyrics.
func (s *Service) ClearCache() { s.cache.Clear() }

// PruneCache removes expired entries and returns the count removed.
func (s *Service) PruneCache() int { return s.cache.Prune() }

// CacheStats reports the current cache size and nearest expiry.
func (s *Service) CacheStats() cache.Stats { return s.cache.Stats() }
