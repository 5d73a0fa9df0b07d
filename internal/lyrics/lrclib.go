package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Query identifies a track for a lyrics lookup.
type Query struct {
	Artist   string
	Title    string
	Album    string
	Duration time.Duration // zero when unknown
}

// CacheKey derives the cache key for this query. Normalized for case
// and whitespace; the duration (in whole seconds) keeps distinct
// recordings of the same song apart.
func (q Query) CacheKey() string {
	return fmt.Sprintf("lyrics:%s|%s|%d",
		strings.ToLower(strings.TrimSpace(q.Artist)),
		strings.ToLower(strings.TrimSpace(q.Title)),
		int(q.Duration.Seconds()))
}

// Result holds the lyrics for one track. The zero value is the
// absent-marker returned when no lyrics exist.
type Result struct {
	Synced string // LRC format with timestamps, empty if unavailable
	Plain  string // plain text lyrics, empty if unavailable
}

// Found reports whether any lyrics were found.
func (r Result) Found() bool { return r.Synced != "" || r.Plain != "" }

// Source fetches lyrics from an upstream API.
type Source interface {
	Fetch(ctx context.Context, q Query) (Result, error)
}

// Client fetches synced lyrics from LRCLib.
type Client struct {
	httpClient *http.Client
	apiURL     string
}

// NewClient creates a new LRCLib client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     "https://lrclib.net/api/get",
	}
}

// Fetch retrieves lyrics for the given track from LRCLib.
// Returns the zero Result (no error) when lyrics are not found.
// Retries once on transient network errors.
func (c *Client) Fetch(ctx context.Context, q Query) (Result, error) {
	result, err := c.doFetch(ctx, q)
	if err == nil {
		return result, nil
	}

	// Only retry on network-level errors (timeout, connection reset, etc.)
	// Don't retry on API errors (4xx, 5xx) which would fail identically.
	if !isTransient(err) {
		return Result{}, err
	}

	select {
	case <-ctx.Done():
		return Result{}, err
	case <-time.After(2 * time.Second):
	}
	return c.doFetch(ctx, q)
}

func isTransient(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}

func (c *Client) doFetch(ctx context.Context, q Query) (Result, error) {
	params := url.Values{}
	params.Set("artist_name", q.Artist)
	params.Set("track_name", q.Title)
	params.Set("album_name", q.Album)
	if q.Duration > 0 {
		params.Set("duration", strconv.Itoa(int(q.Duration.Seconds())))
	}

	reqURL := fmt.Sprintf("%s?%s", c.apiURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create lrclib request: %w", err)
	}
	req.Header.Set("User-Agent", "artistinfo/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("lrclib request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Result{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("lrclib returned status %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return Result{}, fmt.Errorf("failed to decode lrclib response: %w", err)
	}

	return Result{
		Synced: apiResp.SyncedLyrics,
		Plain:  apiResp.PlainLyrics,
	}, nil
}

type apiResponse struct {
	SyncedLyrics string `json:"syncedLyrics"`
	PlainLyrics  string `json:"plainLyrics"`
}
