package augment

import (
	"fmt"
	"sync"
	"time"
)

// ProgressFunc receives progress updates. fraction is in [0,1].
type ProgressFunc func(fraction float64, message string)

// ProgressTracker tracks progress and forwards it to a callback at a
// configured interval. Progress is monotonic.
type ProgressTracker struct {
	fn             ProgressFunc
	total          int
	current        int
	reportInterval int
	lastReported   int
	startTime      time.Time
	started        bool
	mu             sync.Mutex
}

// NewProgressTracker creates a new progress tracker.
// fn: callback receiving updates (may be nil)
// total: total number of items to process
// reportInterval: report progress every N items
func NewProgressTracker(fn ProgressFunc, total, reportInterval int) *ProgressTracker {
	if fn == nil {
		fn = func(float64, string) {}
	}
	if reportInterval <= 0 {
		reportInterval = 1
	}

	return &ProgressTracker{
		fn:             fn,
		total:          total,
		reportInterval: reportInterval,
	}
}

// Start begins tracking progress.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.current = 0
	p.lastReported = 0
}

// Update sets the current progress to the specified value. Values lower
// than the current progress are ignored.
func (p *ProgressTracker) Update(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started || current < p.current {
		return
	}

	if current > p.total {
		current = p.total
	}
	p.current = current

	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// Increment increases the current progress by the specified amount.
func (p *ProgressTracker) Increment(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started || delta <= 0 {
		return
	}

	p.current += delta
	if p.current > p.total {
		p.current = p.total
	}

	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// Finish marks the operation as complete and reports final progress.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.current = p.total
	p.report()
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}

	return time.Since(p.startTime)
}

// report forwards the current progress. Must be called with lock held.
func (p *ProgressTracker) report() {
	fraction := 1.0
	if p.total > 0 {
		fraction = float64(p.current) / float64(p.total)
	}

	p.fn(fraction, fmt.Sprintf("%d/%d documents", p.current, p.total))
}
