// Package watch reports clip metadata files that appear or change in a
// directory, coalescing bursts of filesystem events per file.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"clipmeta/internal/logging"
)

const minTick = 10 * time.Millisecond

// Handler is invoked once per settled file.
type Handler func(ctx context.Context, path string)

// Watcher watches a single directory, non-recursively.
type Watcher struct {
	dir      string
	match    func(string) bool
	debounce time.Duration
	fsw      *fsnotify.Watcher
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]time.Time
}

// New starts watching dir. match selects the paths handed to the handler;
// debounce is how long a file must stay quiet before it is handled.
func New(dir string, match func(string) bool, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	if match == nil {
		return nil, errors.New("watch: match function required")
	}
	if debounce < 0 {
		debounce = 0
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		dir:      dir,
		match:    match,
		debounce: debounce,
		fsw:      fsw,
		logger:   logging.NewComponentLogger(logger, "watch"),
		pending:  make(map[string]time.Time),
	}, nil
}

// Close stops the underlying watcher. Run returns once its channels drain.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run dispatches settled files to handle until ctx is cancelled or the
// watcher is closed. Handlers run on the Run goroutine, one at a time.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	tick := w.debounce / 2
	if tick < minTick {
		tick = minTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	w.logger.Info("watching directory",
		logging.String(logging.FieldDir, w.dir),
		logging.Duration("debounce", w.debounce),
		logging.String(logging.FieldEventType, "watch_started"),
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logging.WarnWithContext(w.logger, "watcher error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "some file changes may be missed"),
			)
		case now := <-ticker.C:
			for _, path := range w.due(now) {
				if ctx.Err() != nil {
					return nil
				}
				handle(ctx, path)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !w.match(event.Name) {
		return
	}
	w.pendingMu.Lock()
	w.pending[event.Name] = time.Now()
	w.pendingMu.Unlock()

	w.logger.Debug("clip change detected",
		logging.String(logging.FieldInput, event.Name),
		logging.String("op", event.Op.String()),
	)
}

// due removes and returns the pending paths that have been quiet for the
// debounce window, in name order.
func (w *Watcher) due(now time.Time) []string {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}
