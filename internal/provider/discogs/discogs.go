package discogs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"artistinfo/internal/enrich"
)

// Client is a Discogs database-search client implementing the
// timeline source interface. Discogs requires a consumer key and
// secret for search requests.
type Client struct {
	httpClient *http.Client
	apiURL     string

	mu     sync.Mutex
	key    string
	secret string
}

// New creates a new Discogs client.
func New(key, secret string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     "https://api.discogs.com",
		key:        key,
		secret:     secret,
	}
}

func (c *Client) Name() string { return "discogs" }

// UpdateSettings applies a partial credential update; empty fields
// keep the current values.
func (c *Client) UpdateSettings(s enrich.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s.APIKey != "" {
		c.key = s.APIKey
	}
	if s.APISecret != "" {
		c.secret = s.APISecret
	}
}

func (c *Client) credentials() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key, c.secret
}

// Timeline builds a release timeline from the Discogs database
// search. Duplicate title/year pairs (reissues, regional variants)
// are collapsed into one entry.
func (c *Client) Timeline(ctx context.Context, artist string) ([]enrich.TimelineEntry, error) {
	key, secret := c.credentials()
	if key == "" || secret == "" {
		return nil, fmt.Errorf("discogs credentials not configured")
	}

	params := url.Values{}
	params.Set("artist", artist)
	params.Set("type", "release")
	params.Set("sort", "year")
	params.Set("per_page", "100")

	reqURL := fmt.Sprintf("%s/database/search?%s", c.apiURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create discogs request: %w", err)
	}
	req.Header.Set("User-Agent", "artistinfo/1.0")
	req.Header.Set("Authorization", fmt.Sprintf("Discogs key=%s, secret=%s", key, secret))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("discogs search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("discogs search returned %d: %s", resp.StatusCode, body)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode discogs response: %w", err)
	}

	return parseReleases(artist, searchResp.Results), nil
}

func parseReleases(artist string, results []searchResult) []enrich.TimelineEntry {
	seen := make(map[string]bool)
	var entries []enrich.TimelineEntry
	for _, res := range results {
		year := atoi(res.Year)
		title := releaseTitle(artist, res.Title)
		if year == 0 || title == "" {
			continue
		}
		dedupe := fmt.Sprintf("%d|%s", year, strings.ToLower(title))
		if seen[dedupe] {
			continue
		}
		seen[dedupe] = true
		entries = append(entries, enrich.TimelineEntry{
			Year:  year,
			Title: title,
			Kind:  "release",
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Year < entries[j].Year })
	return entries
}

// releaseTitle strips the "Artist - " prefix Discogs puts on search
// result titles.
func releaseTitle(artist, title string) string {
	if i := strings.Index(title, " - "); i > 0 {
		prefix := title[:i]
		if strings.EqualFold(strings.TrimSpace(prefix), strings.TrimSpace(artist)) {
			return strings.TrimSpace(title[i+3:])
		}
	}
	return strings.TrimSpace(title)
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Discogs API response types. Search results carry the year as a string.

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Year  string `json:"year"`
	Type  string `json:"type"`
}
