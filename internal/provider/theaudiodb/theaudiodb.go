package theaudiodb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"artistinfo/internal/enrich"
)

// publicKey is TheAudioDB's shared test key, rate-limited upstream.
const publicKey = "2"

// Client is a TheAudioDB API client. It implements both the timeline
// and gallery source interfaces: timelines come from the artist
// profile plus discography, galleries from the MBID artist lookup.
type Client struct {
	httpClient *http.Client
	apiURL     string

	mu     sync.Mutex
	apiKey string
}

// New creates a new TheAudioDB client. An empty key falls back to the
// public test key.
func New(apiKey string) *Client {
	if apiKey == "" {
		apiKey = publicKey
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     "https://theaudiodb.com/api/v1/json",
		apiKey:     apiKey,
	}
}

func (c *Client) Name() string { return "theaudiodb" }

// UpdateSettings applies a partial credential update; an empty key
// keeps the current one.
func (c *Client) UpdateSettings(s enrich.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s.APIKey != "" {
		c.apiKey = s.APIKey
	}
}

func (c *Client) key() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKey
}

// Timeline builds an artist's career timeline from the profile
// (formed/disbanded years) and the discography (one entry per album).
// Returns nil entries when the artist is unknown upstream.
func (c *Client) Timeline(ctx context.Context, artist string) ([]enrich.TimelineEntry, error) {
	profile, err := c.searchArtist(ctx, artist)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}

	var entries []enrich.TimelineEntry
	if year := atoi(profile.FormedYear); year > 0 {
		entries = append(entries, enrich.TimelineEntry{
			Year:  year,
			Title: profile.Artist,
			Kind:  "formed",
		})
	}

	albums, err := c.discography(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range albums {
		year := atoi(a.YearReleased)
		if year == 0 || a.Album == "" {
			continue
		}
		entries = append(entries, enrich.TimelineEntry{
			Year:  year,
			Title: a.Album,
			Kind:  "release",
		})
	}

	if profile.Disbanded == "Yes" {
		if year := atoi(profile.DiedYear); year > 0 {
			entries = append(entries, enrich.TimelineEntry{
				Year:  year,
				Title: profile.Artist,
				Kind:  "disbanded",
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Year < entries[j].Year })
	return entries, nil
}

// Gallery looks up an artist's images by MusicBrainz ID. An unknown
// MBID yields the empty placeholder, not an error.
func (c *Client) Gallery(ctx context.Context, mbid string) (enrich.ArtistImages, error) {
	var resp artistResponse
	reqURL := fmt.Sprintf("%s/%s/artist-mb.php?i=%s", c.apiURL, c.key(), url.QueryEscape(mbid))
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		return enrich.ArtistImages{}, err
	}
	if len(resp.Artists) == 0 {
		return enrich.ArtistImages{}, nil
	}

	a := resp.Artists[0]
	images := enrich.ArtistImages{
		Thumbs:      nonEmpty(a.Thumb),
		Backgrounds: nonEmpty(a.Fanart, a.Fanart2, a.Fanart3),
		Banners:     nonEmpty(a.Banner),
		Logos:       nonEmpty(a.Logo),
	}
	return images, nil
}

// searchArtist returns the artist profile, or nil when not found.
func (c *Client) searchArtist(ctx context.Context, artist string) (*artistInfo, error) {
	var resp artistResponse
	reqURL := fmt.Sprintf("%s/%s/search.php?s=%s", c.apiURL, c.key(), url.QueryEscape(artist))
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		return nil, err
	}
	if len(resp.Artists) == 0 {
		return nil, nil
	}
	return &resp.Artists[0], nil
}

func (c *Client) discography(ctx context.Context, artistID string) ([]albumInfo, error) {
	if artistID == "" {
		return nil, nil
	}
	var resp albumResponse
	reqURL := fmt.Sprintf("%s/%s/album.php?i=%s", c.apiURL, c.key(), url.QueryEscape(artistID))
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		return nil, err
	}
	return resp.Albums, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create theaudiodb request: %w", err)
	}
	req.Header.Set("User-Agent", "artistinfo/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("theaudiodb request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("theaudiodb returned %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode theaudiodb response: %w", err)
	}
	return nil
}

// atoi parses TheAudioDB's string-encoded numbers, returning 0 for
// anything unparsable ("", "null", junk).
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func nonEmpty(urls ...string) []string {
	var out []string
	for _, u := range urls {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

// TheAudioDB API response types. All numeric fields arrive as strings.

type artistResponse struct {
	Artists []artistInfo `json:"artists"`
}

type artistInfo struct {
	ID         string `json:"idArtist"`
	Artist     string `json:"strArtist"`
	MBID       string `json:"strMusicBrainzID"`
	FormedYear string `json:"intFormedYear"`
	DiedYear   string `json:"intDiedYear"`
	Disbanded  string `json:"strDisbanded"`
	Thumb      string `json:"strArtistThumb"`
	Fanart     string `json:"strArtistFanart"`
	Fanart2    string `json:"strArtistFanart2"`
	Fanart3    string `json:"strArtistFanart3"`
	Banner     string `json:"strArtistBanner"`
	Logo       string `json:"strArtistLogo"`
}

type albumResponse struct {
	Albums []albumInfo `json:"album"`
}

type albumInfo struct {
	Album        string `json:"strAlbum"`
	YearReleased string `json:"intYearReleased"`
}
