package enrich

import (
	"context"
	"fmt"
	"strings"

	"artistinfo/internal/cache"
	"artistinfo/internal/logger"
)

// TimelineService serves timeline lookups through a TTL cache: a hit
// returns the cached entries without touching the upstream, a miss
// performs exactly one fetch and stores the transformed result under
// the derived key. Not-found results (empty timelines) are cached
// like any other so repeat lookups of unknown artists stay local;
// fetch failures are never cached and the next lookup retries.
type TimelineService struct {
	source TimelineSource
	cache  *cache.Cache[[]TimelineEntry]
	logger *logger.Logger
}

// NewTimelineService creates a service over the given source. The
// cache is owned by this service instance and must not be shared.
func NewTimelineService(source TimelineSource, c *cache.Cache[[]TimelineEntry], log *logger.Logger) *TimelineService {
	return &TimelineService{source: source, cache: c, logger: log}
}

// Lookup returns the artist's timeline, from cache when fresh. An
// empty artist name yields an empty timeline without a fetch.
func (s *TimelineService) Lookup(ctx context.Context, artist string) ([]TimelineEntry, error) {
	if strings.TrimSpace(artist) == "" {
		return nil, nil
	}

	key := TimelineKey(artist)
	if entries, ok := s.cache.Get(key); ok {
		s.logger.Debug("timeline cache hit for %q", artist)
		return entries, nil
	}

	entries, err := s.source.Timeline(ctx, artist)
	if err != nil {
		return nil, fmt.Errorf("%s timeline fetch failed: %w", s.source.Name(), err)
	}

	s.cache.Set(key, entries)
	return entries, nil
}

// UpdateSettings applies a partial credential update to the source
// and drops all cached responses, which may have been fetched under
// the old credentials.
func (s *TimelineService) UpdateSettings(settings Settings) {
	if r, ok := s.source.(SettingsReceiver); ok {
		r.UpdateSettings(settings)
	}
	s.cache.Clear()
}

// ClearCache drops all cached timelines.
func (s *TimelineService) ClearCache() { s.cache.Clear() }

// PruneCache removes expired entries and returns the count removed.
func (s *TimelineService) PruneCache() int { return s.cache.Prune() }

// CacheStats reports the current cache size and nearest expiry.
func (s *TimelineService) CacheStats() cache.Stats { return s.cache.Stats() }

// GalleryService serves gallery lookups through a TTL cache using the
// same protocol as TimelineService. When a lookup arrives without a
// MusicBrainz ID, the optional resolver turns the artist-name
// fallback into one before the cache is consulted. The all-empty
// placeholder gallery is cached too.
type GalleryService struct {
	source   GallerySource
	resolver MBIDResolver // may be nil
	cache    *cache.Cache[ArtistImages]
	logger   *logger.Logger
}

// NewGalleryService creates a service over the given source. resolver
// may be nil, in which case lookups without an MBID return the empty
// placeholder.
func NewGalleryService(source GallerySource, resolver MBIDResolver, c *cache.Cache[ArtistImages], log *logger.Logger) *GalleryService {
	return &GalleryService{source: source, resolver: resolver, cache: c, logger: log}
}

// Lookup returns the artist's image gallery, from cache when fresh.
func (s *GalleryService) Lookup(ctx context.Context, mbid, artist string) (ArtistImages, error) {
	mbid = strings.TrimSpace(mbid)
	if mbid == "" {
		resolved, err := s.resolveMBID(ctx, artist)
		if err != nil {
			return ArtistImages{}, err
		}
		if resolved == "" {
			return ArtistImages{}, nil
		}
		mbid = resolved
	}

	key := GalleryKey(mbid)
	if images, ok := s.cache.Get(key); ok {
		s.logger.Debug("gallery cache hit for %s", mbid)
		return images, nil
	}

	images, err := s.source.Gallery(ctx, mbid)
	if err != nil {
		return ArtistImages{}, fmt.Errorf("%s gallery fetch failed: %w", s.source.Name(), err)
	}

	images.MBID = mbid
	s.cache.Set(key, images)
	return images, nil
}

func (s *GalleryService) resolveMBID(ctx context.Context, artist string) (string, error) {
	if s.resolver == nil || strings.TrimSpace(artist) == "" {
		return "", nil
	}
	mbid, err := s.resolver.ResolveArtist(ctx, artist)
	if err != nil {
		return "", fmt.Errorf("mbid resolution for %q failed: %w", artist, err)
	}
	if mbid == "" {
		s.logger.Debug("no musicbrainz match for %q", artist)
	}
	return mbid, nil
}

// UpdateSettings applies a partial credential update to the source
// and drops all cached galleries.
func (s *GalleryService) UpdateSettings(settings Settings) {
	if r, ok := s.source.(SettingsReceiver); ok {
		r.UpdateSettings(settings)
	}
	s.cache.Clear()
}

// ClearCache drops all cached galleries.
func (s *GalleryService) ClearCache() { s.cache.Clear() }

// PruneCache removes expired entries and returns the count removed.
func (s *GalleryService) PruneCache() int { return s.cache.Prune() }

// CacheStats reports the current cache size and nearest expiry.
func (s *GalleryService) CacheStats() cache.Stats { return s.cache.Stats() }
