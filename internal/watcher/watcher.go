package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Operation represents a file system operation type.
type Operation int

const (
	// OpCreate indicates the file was created.
	OpCreate Operation = iota
	// OpModify indicates the file was written.
	OpModify
	// OpDelete indicates the file was removed.
	OpDelete
	// OpRename indicates the file was renamed away.
	OpRename
)

// String returns a human-readable representation of the operation.
func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpModify:
		return "MODIFY"
	case OpDelete:
		return "DELETE"
	case OpRename:
		return "RENAME"
	default:
		return "UNKNOWN"
	}
}

// FileEvent represents a change to one watched file.
type FileEvent struct {
	// Path is the absolute path of the watched file.
	Path      string
	Operation Operation
	Timestamp time.Time
}

// Options configures the watcher behavior.
type Options struct {
	// DebounceWindow is the quiet time before a batch is emitted.
	// Default: 300ms
	DebounceWindow time.Duration
}

// DefaultOptions returns the default watcher options.
func DefaultOptions() Options {
	return Options{DebounceWindow: 300 * time.Millisecond}
}

// WithDefaults returns options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = DefaultOptions().DebounceWindow
	}
	return o
}

// FileWatcher watches a fixed set of files.
type FileWatcher struct {
	fsw       *fsnotify.Watcher
	debouncer *Debouncer
	files     map[string]bool

	errors chan error
	stopCh chan struct{}

	mu      sync.Mutex
	stopped bool
}

// New creates a watcher for paths. Watching starts with Start.
func New(opts Options, paths ...string) (*FileWatcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	opts = opts.WithDefaults()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &FileWatcher{
		fsw:       fsw,
		debouncer: NewDebouncer(opts.DebounceWindow),
		files:     make(map[string]bool, len(paths)),
		errors:    make(chan error, 10),
		stopCh:    make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	return w, nil
}

// Start forwards events until ctx is cancelled or Stop is called.
func (w *FileWatcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.emitError(err)
		}
	}
}

// handle filters events to the watched files and converts them.
func (w *FileWatcher) handle(event fsnotify.Event) {
	name, err := filepath.Abs(event.Name)
	if err != nil || !w.files[name] {
		return
	}

	var op Operation
	switch {
	case event.Op&fsnotify.Create != 0:
		op = OpCreate
	case event.Op&fsnotify.Write != 0:
		op = OpModify
	case event.Op&fsnotify.Remove != 0:
		op = OpDelete
	case event.Op&fsnotify.Rename != 0:
		op = OpRename
	default:
		// Chmod
		return
	}

	slog.Debug("result file changed",
		slog.String("path", name),
		slog.String("op", op.String()))

	w.debouncer.Add(FileEvent{Path: name, Operation: op, Timestamp: time.Now()})
}

func (w *FileWatcher) emitError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	select {
	case w.errors <- err:
	default:
		slog.Warn("watcher error dropped", slog.String("error", err.Error()))
	}
}

// Events returns batches of debounced changes.
// The channel is closed when the watcher stops.
func (w *FileWatcher) Events() <-chan []FileEvent {
	return w.debouncer.Output()
}

// Errors returns non-fatal watcher errors.
func (w *FileWatcher) Errors() <-chan error {
	return w.errors
}

// Stop stops the watcher and releases resources.
// Safe to call multiple times.
func (w *FileWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopCh)

	w.debouncer.Stop()
	err := w.fsw.Close()
	close(w.errors)
	return err
}
