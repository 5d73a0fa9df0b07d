package fanarttv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"artistinfo/internal/enrich"
)

// Client is a Fanart.tv API client implementing the gallery source
// interface. Lookups are by MusicBrainz artist ID only; a personal
// API key is required.
type Client struct {
	httpClient *http.Client
	apiURL     string

	mu     sync.Mutex
	apiKey string
}

// New creates a new Fanart.tv client.
func New(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     "https://webservice.fanart.tv/v3/music",
		apiKey:     apiKey,
	}
}

func (c *Client) Name() string { return "fanarttv" }

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

// Gallery fetches the image set for an artist. Fanart.tv answers 404
// for artists with no art; that maps to the empty placeholder record,
// not an error.
func (c *Client) Gallery(ctx context.Context, mbid string) (enrich.ArtistImages, error) {
	key := c.key()
	if key == "" {
		return enrich.ArtistImages{}, fmt.Errorf("fanarttv api key not configured")
	}

	reqURL := fmt.Sprintf("%s/%s?api_key=%s", c.apiURL, url.PathEscape(mbid), url.QueryEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return enrich.ArtistImages{}, fmt.Errorf("failed to create fanarttv request: %w", err)
	}
	req.Header.Set("User-Agent", "artistinfo/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return enrich.ArtistImages{}, fmt.Errorf("fanarttv request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return enrich.ArtistImages{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return enrich.ArtistImages{}, fmt.Errorf("fanarttv returned %d: %s", resp.StatusCode, body)
	}

	var apiResp artistResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return enrich.ArtistImages{}, fmt.Errorf("failed to decode fanarttv response: %w", err)
	}

	images := enrich.ArtistImages{
		Thumbs:      urls(apiResp.Thumbs),
		Backgrounds: urls(apiResp.Backgrounds),
		Banners:     urls(apiResp.Banners),
		Logos:       urls(append(apiResp.HDLogos, apiResp.Logos...)),
	}
	return images, nil
}

func urls(assets []asset) []string {
	var out []string
	for _, a := range assets {
		if a.URL != "" {
			out = append(out, a.URL)
		}
	}
	return out
}

// Fanart.tv API response types

type artistResponse struct {
	Name        string  `json:"name"`
	Thumbs      []asset `json:"artistthumb"`
	Backgrounds []asset `json:"artistbackground"`
	Banners     []asset `json:"musicbanner"`
	HDLogos     []asset `json:"hdmusiclogo"`
	Logos       []asset `json:"musiclogo"`
}

type asset struct {
	URL string `json:"url"`
}
