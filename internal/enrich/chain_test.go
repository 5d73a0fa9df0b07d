package enrich

import (
	"context"
	"fmt"
	"testing"

	"artistinfo/internal/logger"
)

func TestChainTimelineFirstSuccess(t *testing.T) {
	p1 := &stubTimelineSource{name: "first", entries: []TimelineEntry{{Title: "from-first"}}}
	p2 := &stubTimelineSource{name: "second", entries: []TimelineEntry{{Title: "from-second"}}}

	chain := NewChainTimeline([]TimelineSource{p1, p2}, logger.New(false))
	entries, err := chain.Timeline(context.Background(), "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "from-first" {
		t.Errorf("expected result from first source, got %v", entries)
	}
	if p2.fetches != 0 {
		t.Error("second source should not be queried when the first succeeds")
	}
}

func TestChainTimelineFallbackOnError(t *testing.T) {
	p1 := &stubTimelineSource{name: "failing", err: fmt.Errorf("api down")}
	p2 := &stubTimelineSource{name: "fallback", entries: []TimelineEntry{{Title: "from-fallback"}}}

	chain := NewChainTimeline([]TimelineSource{p1, p2}, logger.New(false))
	entries, err := chain.Timeline(context.Background(), "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "from-fallback" {
		t.Errorf("expected result from fallback source, got %v", entries)
	}
}

func TestChainTimelineFallbackOnEmpty(t *testing.T) {
	p1 := &stubTimelineSource{name: "empty"}
	p2 := &stubTimelineSource{name: "has-results", entries: []TimelineEntry{{Title: "found"}}}

	chain := NewChainTimeline([]TimelineSource{p1, p2}, logger.New(false))
	entries, err := chain.Timeline(context.Background(), "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "found" {
		t.Errorf("expected result from second source, got %v", entries)
	}
}

func TestChainTimelineAllFail(t *testing.T) {
	p1 := &stubTimelineSource{name: "fail1", err: fmt.Errorf("error1")}
	p2 := &stubTimelineSource{name: "fail2", err: fmt.Errorf("error2")}

	chain := NewChainTimeline([]TimelineSource{p1, p2}, logger.New(false))
	entries, err := chain.Timeline(context.Background(), "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries != nil {
		t.Errorf("expected nil entries, got %v", entries)
	}
}

func TestChainTimelineName(t *testing.T) {
	chain := NewChainTimeline(nil, logger.New(false))
	if chain.Name() != "chain" {
		t.Errorf("Name() = %q, want %q", chain.Name(), "chain")
	}
}
