package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// minScore is the MusicBrainz search score below which a match is
// considered too fuzzy to trust.
const minScore = 90

// Client is a MusicBrainz Web API client used to resolve artist names
// to MusicBrainz IDs for gallery lookups.
type Client struct {
	httpClient  *http.Client
	apiURL      string
	mu          sync.Mutex
	lastRequest time.Time
}

// New creates a new MusicBrainz client.
func New() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     "https://musicbrainz.org/ws/2",
	}
}

func (c *Client) Name() string { return "musicbrainz" }

// ResolveArtist looks up the MusicBrainz ID for an artist name.
// Returns "" without error when there is no confident match.
func (c *Client) ResolveArtist(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", nil
	}

	c.rateLimit()

	query := fmt.Sprintf("artist:%q", name)
	reqURL := fmt.Sprintf("%s/artist?query=%s&fmt=json&limit=1", c.apiURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create musicbrainz request: %w", err)
	}
	req.Header.Set("User-Agent", "artistinfo/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		return "", fmt.Errorf("musicbrainz artist search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("musicbrainz artist search returned %d: %s", resp.StatusCode, body)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return "", fmt.Errorf("failed to decode musicbrainz response: %w", err)
	}

	if len(searchResp.Artists) == 0 {
		return "", nil
	}
	best := searchResp.Artists[0]
	if best.Score < minScore {
		return "", nil
	}
	return best.ID, nil
}

// rateLimit enforces MusicBrainz's 1 request/second limit.
func (c *Client) rateLimit() {
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	c.mu.Unlock()

	if elapsed < time.Second {
		time.Sleep(time.Second - elapsed)
	}

	c.mu.Lock()
	c.lastRequest = time.Now()
	c.mu.Unlock()
}

// doWithRetry executes the request, retrying on 429/503 with backoff.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
		resp.Body.Close()
		retryAfter := 2
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if parsed, err := strconv.Atoi(ra); err == nil {
				retryAfter = parsed
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(retryAfter) * time.Second):
		}

		c.mu.Lock()
		c.lastRequest = time.Now()
		c.mu.Unlock()
		retry := req.Clone(ctx)
		return c.httpClient.Do(retry)
	}

	return resp, nil
}

// MusicBrainz API response types

type searchResponse struct {
	Artists []artistInfo `json:"artists"`
}

type artistInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}
