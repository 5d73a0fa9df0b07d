package musicbrainz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New()
	c.apiURL = srv.URL
	return c
}

func TestResolveArtist(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "artistinfo/1.0" {
			t.Errorf("User-Agent = %q", got)
		}
		query := r.URL.Query().Get("query")
		if !strings.Contains(query, "Daft Punk") {
			t.Errorf("query = %q, want artist name included", query)
		}
		w.Write([]byte(`{
			"artists": [{
				"id": "056e4f3e-d505-4dad-8ec1-d04f521cbb56",
				"name": "Daft Punk",
				"score": 100
			}]
		}`))
	})

	mbid, err := c.ResolveArtist(context.Background(), "Daft Punk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mbid != "056e4f3e-d505-4dad-8ec1-d04f521cbb56" {
		t.Errorf("mbid = %q", mbid)
	}
}

func TestResolveArtistNoMatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"artists": []}`))
	})

	mbid, err := c.ResolveArtist(context.Background(), "Nobody At All")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mbid != "" {
		t.Errorf("mbid = %q, want empty", mbid)
	}
}

func TestResolveArtistLowScoreRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"artists": [{"id": "some-id", "name": "Daft Prank", "score": 55}]
		}`))
	})

	mbid, err := c.ResolveArtist(context.Background(), "Daft Punk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mbid != "" {
		t.Errorf("mbid = %q, fuzzy matches should be rejected", mbid)
	}
}

func TestResolveArtistEmptyName(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	mbid, err := c.ResolveArtist(context.Background(), "")
	if err != nil || mbid != "" {
		t.Errorf(`ResolveArtist("") = %q, %v; want empty, nil`, mbid, err)
	}
	if called {
		t.Error("empty name should not hit the API")
	}
}

func TestResolveArtistServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := c.ResolveArtist(context.Background(), "Daft Punk"); err == nil {
		t.Fatal("expected error on 500, got nil")
	}
}
