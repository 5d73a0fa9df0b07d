package tagging

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"artistinfo/internal/cache"
	"artistinfo/internal/logger"
	"artistinfo/internal/lyrics"

	"go.senan.xyz/taglib"
)

type stubLyricsSource struct {
	result  lyrics.Result
	fetches int
	lastQ   lyrics.Query
}

func (s *stubLyricsSource) Fetch(_ context.Context, q lyrics.Query) (lyrics.Result, error) {
	s.fetches++
	s.lastQ = q
	return s.result, nil
}

// createTestAudioFile generates a minimal MP3 using ffmpeg.
// Skips the test if ffmpeg is not available.
func createTestAudioFile(t *testing.T, dir string) string {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available, skipping tagger test")
	}

	path := filepath.Join(dir, "test.mp3")
	cmd := exec.Command("ffmpeg", "-f", "lavfi", "-i", "anullsrc=r=44100:cl=mono", "-t", "0.1", "-q:a", "9", path)
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to create test audio file: %v", err)
	}
	return path
}

func newTestTagger(src lyrics.Source) *Tagger {
	svc := lyrics.NewService(src, cache.New[lyrics.Result](time.Hour), logger.New(false))
	return New(svc, logger.New(false))
}

func TestTagDirWritesLyrics(t *testing.T) {
	dir := t.TempDir()
	path := createTestAudioFile(t, dir)

	if err := taglib.WriteTags(path, map[string][]string{
		taglib.Artist: {"Test Artist"},
		taglib.Title:  {"Test Song"},
	}, 0); err != nil {
		t.Fatalf("failed to seed tags: %v", err)
	}

	src := &stubLyricsSource{result: lyrics.Result{Synced: "[00:01.00]Hello"}}
	tagger := newTestTagger(src)

	if err := tagger.TagDir(context.Background(), dir); err != nil {
		t.Fatalf("TagDir failed: %v", err)
	}

	tags, err := taglib.ReadTags(path)
	if err != nil {
		t.Fatalf("failed to read tags back: %v", err)
	}
	if got := firstTag(tags, lyricsTag); got != "[00:01.00]Hello" {
		t.Errorf("lyrics tag = %q", got)
	}
	if src.lastQ.Artist != "Test Artist" || src.lastQ.Title != "Test Song" {
		t.Errorf("query = %+v", src.lastQ)
	}
}

func TestTagDirSkipsExistingLyrics(t *testing.T) {
	dir := t.TempDir()
	path := createTestAudioFile(t, dir)

	if err := taglib.WriteTags(path, map[string][]string{
		taglib.Artist: {"Test Artist"},
		taglib.Title:  {"Test Song"},
		lyricsTag:     {"existing words"},
	}, 0); err != nil {
		t.Fatalf("failed to seed tags: %v", err)
	}

	src := &stubLyricsSource{result: lyrics.Result{Plain: "new words"}}
	tagger := newTestTagger(src)

	if err := tagger.TagDir(context.Background(), dir); err != nil {
		t.Fatalf("TagDir failed: %v", err)
	}
	if src.fetches != 0 {
		t.Errorf("source fetched %d times, want 0 for already-tagged file", src.fetches)
	}

	// Force overwrites.
	tagger.Force = true
	if err := tagger.TagDir(context.Background(), dir); err != nil {
		t.Fatalf("forced TagDir failed: %v", err)
	}
	tags, _ := taglib.ReadTags(path)
	if got := firstTag(tags, lyricsTag); got != "new words" {
		t.Errorf("lyrics tag = %q after forced run", got)
	}
}

func TestTagDirSkipsUntaggedFiles(t *testing.T) {
	dir := t.TempDir()
	createTestAudioFile(t, dir)

	src := &stubLyricsSource{result: lyrics.Result{Plain: "words"}}
	tagger := newTestTagger(src)

	if err := tagger.TagDir(context.Background(), dir); err != nil {
		t.Fatalf("TagDir failed: %v", err)
	}
	if src.fetches != 0 {
		t.Error("files without artist/title tags should not trigger lookups")
	}
}

func TestPickLyricsText(t *testing.T) {
	if got := pickLyricsText(lyrics.Result{Synced: "s", Plain: "p"}); got != "s" {
		t.Errorf("pickLyricsText = %q, want synced preferred", got)
	}
	if got := pickLyricsText(lyrics.Result{Plain: "p"}); got != "p" {
		t.Errorf("pickLyricsText = %q, want plain fallback", got)
	}
}
