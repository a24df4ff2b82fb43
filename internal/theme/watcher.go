package theme

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a burst of file events is coalesced.
const DefaultDebounce = 100 * time.Millisecond

// Watcher follows the file behind a user theme and reloads it in place when
// it changes. Bundled themes have no file and are never watched.
type Watcher struct {
	logger   *slog.Logger
	debounce time.Duration
	onChange func(*Theme)

	mu      sync.Mutex
	theme   *Theme
	fsw     *fsnotify.Watcher
	dir     string
	pending *time.Timer
	done    chan struct{}
}

// NewWatcher creates a watcher for th. Start must be called to begin.
func NewWatcher(th *Theme, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger:   logger,
		debounce: DefaultDebounce,
		theme:    th,
	}
}

// SetDebounce must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// SetChangeCallback sets the callback invoked with the reloaded theme. It
// runs on a watcher goroutine.
func (w *Watcher) SetChangeCallback(fn func(*Theme)) {
	w.onChange = fn
}

// Start watches the theme's directory until ctx is done or Stop is called.
// Starting with a bundled theme is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsw != nil {
		return nil
	}
	if w.theme == nil || w.theme.IsBundled {
		w.logger.Debug("not watching bundled theme")
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dir := filepath.Dir(w.theme.Path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return err
	}

	w.fsw, w.dir = fsw, dir
	w.done = make(chan struct{})
	go w.loop(ctx, fsw, w.done)

	w.logger.Debug("theme watcher started", "path", w.theme.Path)
	return nil
}

// Stop ends watching and waits for the watcher goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	fsw, done := w.fsw, w.done
	w.fsw = nil
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
	w.mu.Unlock()

	if fsw == nil {
		return
	}
	_ = fsw.Close()
	<-done
	w.logger.Debug("theme watcher stopped")
}

// UpdateTheme follows th from now on. A user theme in another directory
// moves the watch there; a bundled theme leaves nothing to reload.
func (w *Watcher) UpdateTheme(th *Theme) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.theme = th
	if w.fsw == nil || th == nil || th.IsBundled {
		return
	}
	dir := filepath.Dir(th.Path)
	if dir == w.dir {
		return
	}
	if err := w.fsw.Add(dir); err != nil {
		w.logger.Warn("failed to watch theme directory", "dir", dir, "error", err)
		return
	}
	_ = w.fsw.Remove(w.dir)
	w.dir = dir
}

// IsRunning reports whether a watch is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fsw != nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Chmod
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Op&relevant != 0 && w.isThemeFile(event.Name) {
				w.schedule()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("theme watcher error", "error", err)
		}
	}
}

func (w *Watcher) isThemeFile(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.theme != nil && !w.theme.IsBundled && filepath.Clean(name) == filepath.Clean(w.theme.Path)
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	th := w.theme
	w.pending = nil
	w.mu.Unlock()

	if th == nil || th.IsBundled {
		return
	}
	changed, err := th.Reload()
	if err != nil {
		w.logger.Warn("failed to reload theme", "path", th.Path, "error", err)
		return
	}
	if !changed {
		return
	}
	w.logger.Info("theme reloaded", "name", th.Name, "path", th.Path)
	if w.onChange != nil {
		w.onChange(th)
	}
}
