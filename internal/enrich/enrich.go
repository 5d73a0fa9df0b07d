package enrich

import (
	"context"
	"strings"
)

// TimelineEntry is a single event in an artist's career timeline.
type TimelineEntry struct {
	Year  int    `json:"year"`
	Date  string `json:"date,omitempty"` // full date "2020-03-20" when available
	Title string `json:"title"`
	Kind  string `json:"kind"` // "formed", "release", "disbanded"
}

// ArtistImages is the image gallery for one artist. The zero value is
// the placeholder returned when no art exists for the artist.
type ArtistImages struct {
	MBID        string   `json:"mbid,omitempty"`
	Thumbs      []string `json:"thumbs,omitempty"`
	Backgrounds []string `json:"backgrounds,omitempty"`
	Banners     []string `json:"banners,omitempty"`
	Logos       []string `json:"logos,omitempty"`
}

// Empty reports whether the gallery holds no images at all.
func (a ArtistImages) Empty() bool {
	return len(a.Thumbs) == 0 && len(a.Backgrounds) == 0 &&
		len(a.Banners) == 0 && len(a.Logos) == 0
}

// Settings is a partial provider credential update. Empty fields
// leave the provider's prior configuration unchanged.
type Settings struct {
	APIKey    string
	APISecret string
}

// SettingsReceiver is implemented by sources whose credentials can be
// updated at runtime.
type SettingsReceiver interface {
	UpdateSettings(Settings)
}

// TimelineSource fetches an artist's raw timeline from one upstream
// API. A nil slice with nil error means the artist was not found,
// which is a valid outcome, not a failure.
type TimelineSource interface {
	Name() string
	Timeline(ctx context.Context, artist string) ([]TimelineEntry, error)
}

// GallerySource fetches an artist's image gallery by MusicBrainz ID.
// An empty ArtistImages with nil error means no art exists.
type GallerySource interface {
	Name() string
	Gallery(ctx context.Context, mbid string) (ArtistImages, error)
}

// MBIDResolver resolves an artist name to a MusicBrainz ID. Used as a
// fallback when a gallery lookup arrives without one.
type MBIDResolver interface {
	ResolveArtist(ctx context.Context, name string) (string, error)
}

// TimelineKey derives the cache key for a timeline lookup. Keys are
// normalized for case and surrounding whitespace so repeat lookups of
// the same artist share one entry.
func TimelineKey(artist string) string {
	return "timeline:" + strings.ToLower(strings.TrimSpace(artist))
}

// GalleryKey derives the cache key for a gallery lookup.
func GalleryKey(mbid string) string {
	return "gallery:" + strings.ToLower(strings.TrimSpace(mbid))
}
