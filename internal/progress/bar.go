package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Bar is a simple terminal progress bar for batch runs.
type Bar struct {
	total     int
	current   int
	mu        sync.Mutex
	out       io.Writer
	startTime time.Time
	lastPrint time.Time
	done      bool
}

// New creates a new progress bar writing to stdout.
func New(total int) *Bar {
	return &Bar{
		total:     total,
		out:       os.Stdout,
		startTime: time.Now(),
		lastPrint: time.Now(),
	}
}

// Increment advances the progress counter by one.
func (b *Bar) Increment() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current++

	// Redraw at most every 500ms, and always on completion.
	now := time.Now()
	if now.Sub(b.lastPrint) > 500*time.Millisecond || b.current >= b.total {
		b.render()
		b.lastPrint = now
	}
}

// Finish marks the progress as complete and ends the bar's line.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.done {
		b.current = b.total
		b.render()
		fmt.Fprintln(b.out)
		b.done = true
	}
}

// render draws the bar. Caller holds b.mu.
func (b *Bar) render() {
	if b.done || b.total == 0 {
		return
	}

	percentage := float64(b.current) / float64(b.total) * 100
	elapsed := time.Since(b.startTime)

	var eta time.Duration
	if b.current > 0 {
		avgTime := elapsed / time.Duration(b.current)
		eta = avgTime * time.Duration(b.total-b.current)
	}

	const width = 40
	filled := width * b.current / b.total

	bar := make([]rune, 0, width)
	for i := 0; i < width; i++ {
		if i < filled {
			bar = append(bar, '█')
		} else {
			bar = append(bar, '░')
		}
	}

	fmt.Fprintf(b.out, "\r[%s] %d/%d (%.1f%%) - Elapsed: %s - ETA: %s   ",
		string(bar), b.current, b.total, percentage,
		formatDuration(elapsed), formatDuration(eta))
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
