package discogs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"artistinfo/internal/enrich"
)

const searchBody = `{
	"results": [
		{"id": 1, "title": "Daft Punk - Homework", "year": "1997", "type": "release"},
		{"id": 2, "title": "Daft Punk - Discovery", "year": "2001", "type": "release"},
		{"id": 3, "title": "Daft Punk - Discovery", "year": "2001", "type": "release"},
		{"id": 4, "title": "Daft Punk - Bootleg Sessions", "year": "", "type": "release"},
		{"id": 5, "title": "Alive 1997", "year": "2001", "type": "release"}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New("key123", "secret456")
	c.apiURL = srv.URL
	return c
}

func TestTimeline(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Discogs key=key123, secret=secret456" {
			t.Errorf("Authorization = %q", got)
		}
		q := r.URL.Query()
		if got := q.Get("artist"); got != "Daft Punk" {
			t.Errorf("artist = %q, want %q", got, "Daft Punk")
		}
		if got := q.Get("type"); got != "release" {
			t.Errorf("type = %q, want release", got)
		}
		w.Write([]byte(searchBody))
	})

	entries, err := c.Timeline(context.Background(), "Daft Punk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Duplicate Discovery collapsed, year-less release dropped.
	want := []enrich.TimelineEntry{
		{Year: 1997, Title: "Homework", Kind: "release"},
		{Year: 2001, Title: "Discovery", Kind: "release"},
		{Year: 2001, Title: "Alive 1997", Kind: "release"},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(entries), len(want), entries)
	}
	for i, e := range entries {
		if e != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, e, want[i])
		}
	}
}

func TestTimelineMissingCredentials(t *testing.T) {
	c := New("", "")
	if _, err := c.Timeline(context.Background(), "Daft Punk"); err == nil {
		t.Fatal("expected error without credentials")
	}
}

func TestTimelineServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "invalid consumer key"}`))
	})

	if _, err := c.Timeline(context.Background(), "Daft Punk"); err == nil {
		t.Fatal("expected error on 401, got nil")
	}
}

func TestUpdateSettingsPartial(t *testing.T) {
	c := New("key1", "secret1")

	c.UpdateSettings(enrich.Settings{APIKey: "key2"})
	key, secret := c.credentials()
	if key != "key2" || secret != "secret1" {
		t.Errorf("credentials = %q/%q, want key2/secret1", key, secret)
	}

	c.UpdateSettings(enrich.Settings{APISecret: "secret2"})
	key, secret = c.credentials()
	if key != "key2" || secret != "secret2" {
		t.Errorf("credentials = %q/%q, want key2/secret2", key, secret)
	}
}

func TestReleaseTitle(t *testing.T) {
	tests := []struct {
		artist string
		title  string
		want   string
	}{
		{"Daft Punk", "Daft Punk - Homework", "Homework"},
		{"Daft Punk", "Homework", "Homework"},
		{"Daft Punk", "daft punk - Discovery", "Discovery"},
		{"Daft Punk", "Other Artist - Split EP", "Other Artist - Split EP"},
	}
	for _, tt := range tests {
		if got := releaseTitle(tt.artist, tt.title); got != tt.want {
			t.Errorf("releaseTitle(%q, %q) = %q, want %q", tt.artist, tt.title, got, tt.want)
		}
	}
}
