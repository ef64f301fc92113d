package watcher

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Debouncer coalesces rapid file events. Events for the same path within
// the window are merged:
//   - DELETE + CREATE = MODIFY (file was replaced)
//   - anything else keeps the latest operation
type Debouncer struct {
	window  time.Duration
	pending map[string]FileEvent
	mu      sync.Mutex
	output  chan []FileEvent
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a new debouncer with the given window duration.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window:  window,
		pending: make(map[string]FileEvent),
		output:  make(chan []FileEvent, 10),
	}
}

// Add adds an event to be debounced and restarts the window.
func (d *Debouncer) Add(event FileEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if existing, ok := d.pending[event.Path]; ok {
		if (existing.Operation == OpDelete || existing.Operation == OpRename) && event.Operation == OpCreate {
			event.Operation = OpModify
		}
	}
	d.pending[event.Path] = event

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

// flush emits all pending events sorted by path.
func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || len(d.pending) == 0 {
		return
	}

	events := make([]FileEvent, 0, len(d.pending))
	for _, e := range d.pending {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })
	d.pending = make(map[string]FileEvent)

	// Non-blocking send
	select {
	case d.output <- events:
	default:
		slog.Warn("debouncer output full, dropping batch",
			slog.Int("batch_size", len(events)))
	}
}

// Output returns the channel of debounced event batches.
func (d *Debouncer) Output() <-chan []FileEvent {
	return d.output
}

// Stop stops the debouncer and closes the output channel.
// Safe to call multiple times.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.output)
}
