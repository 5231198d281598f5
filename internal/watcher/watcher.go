package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Operation represents a file system operation type.
type Operation int

const (
	// OpCreate indicates a new file was created, including the target of
	// an atomic rename.
	OpCreate Operation = iota
	// OpModify indicates an existing file was written.
	OpModify
	// OpDelete indicates a file was removed.
	OpDelete
	// OpRename indicates a file was renamed away.
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

// FileEvent is a change to one file of the watched directory.
type FileEvent struct {
	// Path is the file name relative to the watched directory.
	Path      string
	Operation Operation
	Timestamp time.Time
}

// DataFile is the file selected by DataFileFilter.
const DataFile = "data.json"

// DataFileFilter selects data.json only.
func DataFileFilter(name string) bool {
	return name == DataFile
}

// ResultFilesFilter selects every visible file, so figure rewrites are
// reported too.
func ResultFilesFilter(name string) bool {
	return !strings.HasPrefix(name, ".")
}

// Options configures the watcher.
type Options struct {
	// DebounceWindow is the quiet time before a batch is emitted.
	// Default: 300ms
	DebounceWindow time.Duration

	// EventBufferSize is the capacity of the Events channel.
	// Default: 16
	EventBufferSize int

	// Filter selects the file names to report. Default: DataFileFilter.
	Filter func(name string) bool

	Logger *slog.Logger
}

// DefaultOptions returns the default watcher options.
func DefaultOptions() Options {
	return Options{
		DebounceWindow:  300 * time.Millisecond,
		EventBufferSize: 16,
		Filter:          DataFileFilter,
	}
}

// WithDefaults returns options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = d.DebounceWindow
	}
	if o.EventBufferSize <= 0 {
		o.EventBufferSize = d.EventBufferSize
	}
	if o.Filter == nil {
		o.Filter = d.Filter
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// ErrStopped is returned by Start after Stop.
var ErrStopped = errors.New("watcher stopped")

// Watcher watches one results directory.
type Watcher struct {
	opts      Options
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	events    chan []FileEvent
	errors    chan error
	stopCh    chan struct{}

	mu      sync.RWMutex
	dir     string
	started bool
	stopped bool

	droppedBatches atomic.Uint64
}

// New creates a watcher. It fails when the platform has no fsnotify
// support or the process ran out of watch descriptors.
func New(opts Options) (*Watcher, error) {
	opts = opts.WithDefaults()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	d := NewDebouncer(opts.DebounceWindow)
	d.logger = opts.Logger

	return &Watcher{
		opts:      opts,
		fsWatcher: fsw,
		debouncer: d,
		events:    make(chan []FileEvent, opts.EventBufferSize),
		errors:    make(chan error, 10),
		stopCh:    make(chan struct{}),
	}, nil
}

// Start watches dir and blocks until Stop is called or ctx is done.
func (w *Watcher) Start(ctx context.Context, dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve absolute path: %w", err)
	}

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrStopped
	}
	if w.started {
		w.mu.Unlock()
		return errors.New("watcher already started")
	}
	w.started = true
	w.dir = abs
	w.mu.Unlock()

	if err := w.fsWatcher.Add(abs); err != nil {
		return fmt.Errorf("watch %s: %w", abs, err)
	}
	w.opts.Logger.Debug("watching results directory", slog.String("dir", abs))

	go w.forward()

	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.emitError(err)
		}
	}
}

// handle converts and filters one fsnotify event.
func (w *Watcher) handle(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if !w.opts.Filter(name) {
		return
	}

	var op Operation
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpModify
	case event.Has(fsnotify.Remove):
		op = OpDelete
	case event.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}

	w.debouncer.Add(FileEvent{Path: name, Operation: op, Timestamp: time.Now()})
}

// forward moves debounced batches to Events.
func (w *Watcher) forward() {
	for {
		select {
		case <-w.stopCh:
			return
		case batch, ok := <-w.debouncer.Output():
			if !ok {
				return
			}
			w.emit(batch)
		}
	}
}

func (w *Watcher) emit(batch []FileEvent) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return
	}

	select {
	case w.events <- batch:
	default:
		n := w.droppedBatches.Add(1)
		w.opts.Logger.Warn("event buffer full, dropping batch",
			slog.Int("batch_size", len(batch)),
			slog.Uint64("total_dropped_batches", n))
	}
}

func (w *Watcher) emitError(err error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return
	}
	select {
	case w.errors <- err:
	default:
	}
}

// Stop stops watching and closes Events and Errors. Safe to call twice.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopCh)
	w.debouncer.Stop()
	err := w.fsWatcher.Close()
	close(w.events)
	close(w.errors)
	return err
}

// Events returns debounced batches of changes.
func (w *Watcher) Events() <-chan []FileEvent {
	return w.events
}

// Errors returns non-fatal watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// DroppedBatches returns how many batches were dropped because Events was
// full.
func (w *Watcher) DroppedBatches() uint64 {
	return w.droppedBatches.Load()
}

// Dir returns the absolute path being watched.
func (w *Watcher) Dir() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dir
}
