package scheduler

import (
	"sync"
	"time"
)

// CoalesceWindow is how long the debouncer waits after the last queued
// path before flushing a batch. A save-all in an editor, or a git
// checkout touching many files, produces a burst of change events
// within a few milliseconds of each other; without coalescing, each one
// would trigger its own rebuild pass over the module graph.
const CoalesceWindow = 20 * time.Millisecond

// Debouncer batches paths queued in quick succession and delivers them
// together once CoalesceWindow has elapsed since the last Add.
type Debouncer struct {
	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	flush   func(paths []string)
}

// NewDebouncer returns a Debouncer that calls flush with the deduplicated
// set of queued paths once the coalesce window elapses quietly.
func NewDebouncer(flush func(paths []string)) *Debouncer {
	return &Debouncer{
		pending: make(map[string]struct{}),
		flush:   flush,
	}
}

// Add queues path, resetting the coalesce window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(CoalesceWindow, d.drain)
}

func (d *Debouncer) drain() {
	d.mu.Lock()
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	d.pending = make(map[string]struct{})
	d.mu.Unlock()

	if len(paths) > 0 {
		d.flush(paths)
	}
}

// Stop cancels any pending flush without running it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = make(map[string]struct{})
}
