// Package watch reports changes made to the glossary storage file by other
// processes or editors.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// eventChannelBuffer is the size of the outgoing event channel.
	eventChannelBuffer = 16

	defaultDebounce = 250 * time.Millisecond
)

// Operation indicates the kind of change seen on the storage file.
type Operation string

// OpWrite covers creation, modification and replacement by rename; OpRemove
// means the file is gone.
const (
	OpWrite  Operation = "write"
	OpRemove Operation = "remove"
)

// Event reports a settled change to the watched file.
type Event struct {
	Path string
	Op   Operation
}

// FileWatcher watches a single file through its parent directory, so atomic
// temp+rename replacements are seen as well as in-place writes.
type FileWatcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   Operation // empty when nothing is pending
	lastEvent time.Time

	events   chan Event
	done     chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
}

// NewFileWatcher creates a watcher for the file at path.
// A debounce of zero uses the default.
func NewFileWatcher(path string, debounce time.Duration, logger *slog.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	return &FileWatcher{
		path:     abs,
		debounce: debounce,
		watcher:  fsw,
		logger:   logger,
		events:   make(chan Event, eventChannelBuffer),
		done:     make(chan struct{}),
	}, nil
}

// Events returns the channel of settled change events.
// It is closed when the watcher stops.
func (w *FileWatcher) Events() <-chan Event {
	return w.events
}

// Start begins watching. Processing runs until ctx is done or Stop is called.
func (w *FileWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	w.started.Store(true)
	go w.processEvents(ctx)

	w.logger.Info("Storage watcher started", "path", w.path, "debounce", w.debounce)
	return nil
}

// Stop closes the underlying watcher and waits for processing to exit.
// It is safe to call more than once.
func (w *FileWatcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		err = w.watcher.Close()
	})
	if w.started.Load() {
		<-w.done
	}
	return err
}

func (w *FileWatcher) processEvents(ctx context.Context) {
	defer close(w.done)
	defer close(w.events)

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.stopOnce.Do(func() { w.watcher.Close() })
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Storage watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent records events that concern the watched file.
func (w *FileWatcher) handleFSEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}

	op := OpWrite
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		op = OpRemove
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && op != OpRemove {
		return // chmod only
	}

	w.pendingMu.Lock()
	w.pending = op
	w.lastEvent = time.Now()
	w.pendingMu.Unlock()

	w.logger.Debug("Storage change detected", "path", w.path, "op", event.Op.String())
}

// flushPending emits the latest pending change once it has been quiet for
// the debounce delay.
func (w *FileWatcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if w.pending == "" || time.Since(w.lastEvent) < w.debounce {
		w.pendingMu.Unlock()
		return
	}
	op := w.pending
	w.pending = ""
	w.pendingMu.Unlock()

	select {
	case w.events <- Event{Path: w.path, Op: op}:
	case <-ctx.Done():
	default:
		w.logger.Warn("Storage watcher event dropped", "path", w.path, "op", op)
	}
}
