package enrich

import (
	"context"

	"artistinfo/internal/logger"
)

// ChainTimeline tries multiple timeline sources in order, returning
// results from the first one that succeeds with a non-empty timeline.
type ChainTimeline struct {
	sources []TimelineSource
	logger  *logger.Logger
}

// NewChainTimeline creates a ChainTimeline that queries sources in order.
func NewChainTimeline(sources []TimelineSource, log *logger.Logger) *ChainTimeline {
	return &ChainTimeline{sources: sources, logger: log}
}

func (c *ChainTimeline) Name() string { return "chain" }

func (c *ChainTimeline) Timeline(ctx context.Context, artist string) ([]TimelineEntry, error) {
	for _, src := range c.sources {
		entries, err := src.Timeline(ctx, artist)
		if err != nil {
			c.logger.Debug("timeline source %s failed: %v", src.Name(), err)
			continue
		}
		if len(entries) > 0 {
			return entries, nil
		}
	}
	return nil, nil
}
