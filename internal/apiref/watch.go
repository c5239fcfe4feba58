package apiref

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/b-editor/docsite/internal/logfields"
)

// watchDebounce coalesces bursts of filesystem events into one invalidation.
const watchDebounce = 500 * time.Millisecond

// Watcher invalidates a Library when files under its record directory change.
// Record directories are replaced wholesale by doc builds, so a single
// debounced invalidation per burst is enough.
type Watcher struct {
	library *Library
	dir     string
}

// NewWatcher creates a watcher for the library's record directory.
func NewWatcher(library *Library, dir string) *Watcher {
	return &Watcher{library: library, dir: dir}
}

// Run watches until the context is canceled. It blocks, so callers run it on
// its own goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}
	slog.Info("Watching api record directory", logfields.Path(w.dir))

	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(watchDebounce)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			w.library.Invalidate()
			slog.Info("API reference index invalidated after record change", logfields.Path(w.dir))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Record watcher error", logfields.Error(err))
		}
	}
}
