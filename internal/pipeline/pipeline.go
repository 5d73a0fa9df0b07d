package pipeline

import (
	"context"
	"fmt"
	"time"

	"artistinfo/internal/cache"
	"artistinfo/internal/config"
	"artistinfo/internal/enrich"
	"artistinfo/internal/logger"
	"artistinfo/internal/lyrics"
	"artistinfo/internal/provider/discogs"
	"artistinfo/internal/provider/fanarttv"
	"artistinfo/internal/provider/musicbrainz"
	"artistinfo/internal/provider/theaudiodb"
	"artistinfo/internal/tagging"
)

// pruneInterval is how often long-running hosts sweep expired cache
// entries in bulk.
const pruneInterval = 30 * time.Minute

// Hooks lets callers observe batch progress.
type Hooks struct {
	OnFilesFound func(total int)
	OnProgress   func()
	OnWarning    func(msg string)
}

// Report is the result of enriching one artist.
type Report struct {
	Artist   string                 `json:"artist"`
	MBID     string                 `json:"mbid,omitempty"`
	Timeline []enrich.TimelineEntry `json:"timeline"`
	Images   enrich.ArtistImages    `json:"images"`
}

// Services bundles the cached lookup services shared by the CLI and
// the web server. Each service owns its own TTL cache.
type Services struct {
	Timeline *enrich.TimelineService
	Gallery  *enrich.GalleryService
	Lyrics   *lyrics.Service

	logger *logger.Logger

	// Raw provider clients, kept for runtime settings updates.
	audiodb *theaudiodb.Client
	discogs *discogs.Client
	fanart  *fanarttv.Client
}

// NewServices wires provider clients and per-provider caches from the
// configuration.
func NewServices(cfg config.Config, log *logger.Logger) *Services {
	ttl := cfg.CacheTTL()

	s := &Services{logger: log}
	s.audiodb = theaudiodb.New(cfg.AudioDBKey)

	var timelineSources []enrich.TimelineSource
	for _, name := range cfg.TimelineProviders {
		switch name {
		case "theaudiodb":
			timelineSources = append(timelineSources, s.audiodb)
		case "discogs":
			s.discogs = discogs.New(cfg.DiscogsKey, cfg.DiscogsSecret)
			timelineSources = append(timelineSources, s.discogs)
		}
	}

	var timelineSource enrich.TimelineSource
	if len(timelineSources) == 1 {
		timelineSource = timelineSources[0]
	} else {
		timelineSource = enrich.NewChainTimeline(timelineSources, log)
	}
	s.Timeline = enrich.NewTimelineService(timelineSource, cache.New[[]enrich.TimelineEntry](ttl), log)

	// Fanart.tv has the richer art set but needs a personal key;
	// without one the TheAudioDB images serve as gallery.
	var gallerySource enrich.GallerySource = s.audiodb
	if cfg.FanartKey != "" {
		s.fanart = fanarttv.New(cfg.FanartKey)
		gallerySource = s.fanart
	}
	s.Gallery = enrich.NewGalleryService(gallerySource, musicbrainz.New(), cache.New[enrich.ArtistImages](ttl), log)

	s.Lyrics = lyrics.NewService(lyrics.NewClient(), cache.New[lyrics.Result](ttl), log)

	return s
}

// EnrichArtist runs one artist enrichment: timeline then gallery. A
// failure on one side degrades to a warning as long as the other side
// produced data; the error is returned only when both fail.
func (s *Services) EnrichArtist(ctx context.Context, artist, mbid string, hooks Hooks) (Report, error) {
	report := Report{Artist: artist, MBID: mbid}

	timeline, timelineErr := s.Timeline.Lookup(ctx, artist)
	if timelineErr != nil {
		s.warn(hooks, fmt.Sprintf("timeline lookup failed: %v", timelineErr))
	} else {
		report.Timeline = timeline
	}
	if hooks.OnProgress != nil {
		hooks.OnProgress()
	}

	images, galleryErr := s.Gallery.Lookup(ctx, mbid, artist)
	if galleryErr != nil {
		s.warn(hooks, fmt.Sprintf("gallery lookup failed: %v", galleryErr))
	} else {
		report.Images = images
		if report.MBID == "" {
			report.MBID = images.MBID
		}
	}
	if hooks.OnProgress != nil {
		hooks.OnProgress()
	}

	if timelineErr != nil && galleryErr != nil {
		return report, fmt.Errorf("enrichment failed: %w", timelineErr)
	}
	return report, nil
}

// TagLyrics runs the batch lyrics-tagging flow over a directory of
// audio files.
func (s *Services) TagLyrics(ctx context.Context, dir string, force bool, hooks Hooks) error {
	tagger := tagging.New(s.Lyrics, s.logger)
	tagger.Force = force
	tagger.OnFilesFound = hooks.OnFilesFound
	tagger.OnProgress = hooks.OnProgress
	return tagger.TagDir(ctx, dir)
}

// UpdateSettings applies a partial credential update to the named
// provider and invalidates the caches that may hold responses fetched
// under the old credentials.
func (s *Services) UpdateSettings(provider string, settings enrich.Settings) error {
	switch provider {
	case "theaudiodb":
		s.audiodb.UpdateSettings(settings)
		s.Timeline.ClearCache()
		s.Gallery.ClearCache()
	case "discogs":
		if s.discogs == nil {
			return fmt.Errorf("discogs provider not configured")
		}
		s.discogs.UpdateSettings(settings)
		s.Timeline.ClearCache()
	case "fanarttv":
		if s.fanart == nil {
			return fmt.Errorf("fanarttv provider not configured")
		}
		s.fanart.UpdateSettings(settings)
		s.Gallery.ClearCache()
	default:
		return fmt.Errorf("unknown provider %q", provider)
	}
	s.logger.Info("Updated %s settings, caches invalidated", provider)
	return nil
}

// CacheStats reports per-service cache statistics.
func (s *Services) CacheStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"timeline": s.Timeline.CacheStats(),
		"gallery":  s.Gallery.CacheStats(),
		"lyrics":   s.Lyrics.CacheStats(),
	}
}

// PruneCaches sweeps expired entries from every cache and returns the
// total removed.
func (s *Services) PruneCaches() int {
	return s.Timeline.PruneCache() + s.Gallery.PruneCache() + s.Lyrics.PruneCache()
}

// StartCachePrune launches a background sweep that bounds cache
// growth in long-running hosts. Stops when ctx is cancelled.
func (s *Services) StartCachePrune(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(pruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.PruneCaches(); n > 0 {
					s.logger.Debug("pruned %d expired cache entries", n)
				}
			}
		}
	}()
}

func (s *Services) warn(hooks Hooks, msg string) {
	s.logger.Warn("%s", msg)
	if hooks.OnWarning != nil {
		hooks.OnWarning(msg)
	}
}
