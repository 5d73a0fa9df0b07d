package tagging

import (
	"context"
	"fmt"

	"artistinfo/internal/logger"
	"artistinfo/internal/lyrics"
	"artistinfo/pkg/utils"

	"go.senan.xyz/taglib"
)

// lyricsTag is the normalized tag key taglib maps onto each
// container's native lyrics field.
const lyricsTag = "LYRICS"

// Tagger walks audio files, looks up synced lyrics through the cached
// lyrics service, and writes them into each file's lyrics tag.
type Tagger struct {
	lyrics *lyrics.Service
	logger *logger.Logger

	// Force rewrites files that already carry a lyrics tag.
	Force bool

	// OnFilesFound, if set, is called with the batch size before
	// processing starts.
	OnFilesFound func(total int)

	// OnProgress, if set, is called after each processed file.
	OnProgress func()
}

// New creates a Tagger over the given cached lyrics service.
func New(svc *lyrics.Service, log *logger.Logger) *Tagger {
	return &Tagger{lyrics: svc, logger: log}
}

// TagDir processes every audio file under dir. Per-file failures are
// logged and counted but do not abort the batch; the run fails only
// when every file fails.
func (t *Tagger) TagDir(ctx context.Context, dir string) error {
	files, err := utils.FindAudioFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		t.logger.Info("No audio files found in %s", dir)
		return nil
	}

	t.logger.Info("=== Fetching lyrics for %d files ===", len(files))
	if t.OnFilesFound != nil {
		t.OnFilesFound(len(files))
	}

	var failed int
	for i, path := range files {
		select {
		case <-ctx.Done():
			return fmt.Errorf("lyrics tagging cancelled")
		default:
		}

		t.logger.Debug("[%d/%d] Processing: %s", i+1, len(files), path)

		if err := t.tagFile(ctx, path); err != nil {
			t.logger.Warn("[%d/%d] Failed to tag lyrics: %v", i+1, len(files), err)
			failed++
		}

		if t.OnProgress != nil {
			t.OnProgress()
		}
	}

	if failed == len(files) {
		return fmt.Errorf("all %d files failed lyrics tagging", len(files))
	}
	if failed > 0 {
		t.logger.Warn("%d of %d files failed lyrics tagging", failed, len(files))
	}

	t.logger.Info("Lyrics tagging completed")
	return nil
}

func (t *Tagger) tagFile(ctx context.Context, path string) error {
	tags, err := taglib.ReadTags(path)
	if err != nil {
		return fmt.Errorf("failed to read tags: %w", err)
	}

	artist := firstTag(tags, taglib.Artist)
	title := firstTag(tags, taglib.Title)
	if artist == "" || title == "" {
		t.logger.Debug("  Skipping: missing artist or title tags")
		return nil
	}

	if !t.Force && firstTag(tags, lyricsTag) != "" {
		t.logger.Debug("  Skipping: lyrics tag already present")
		return nil
	}

	query := lyrics.Query{
		Artist: artist,
		Title:  title,
		Album:  firstTag(tags, taglib.Album),
	}
	// Duration narrows the LRCLib match; tagging works without it.
	if props, err := taglib.ReadProperties(path); err == nil {
		query.Duration = props.Length
	}

	result, err := t.lyrics.Lookup(ctx, query)
	if err != nil {
		return err
	}
	if !result.Found() {
		t.logger.Debug("  No lyrics found for %q / %q", artist, title)
		return nil
	}

	text := pickLyricsText(result)
	if err := taglib.WriteTags(path, map[string][]string{lyricsTag: {text}}, 0); err != nil {
		return fmt.Errorf("failed to write lyrics tag: %w", err)
	}

	t.logger.Debug("  Wrote lyrics (%d bytes)", len(text))
	return nil
}

// pickLyricsText prefers synced LRC lyrics over plain text.
func pickLyricsText(r lyrics.Result) string {
	if r.Synced != "" {
		return r.Synced
	}
	return r.Plain
}

func firstTag(tags map[string][]string, key string) string {
	if vals, ok := tags[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}
