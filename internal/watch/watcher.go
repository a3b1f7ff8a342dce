// Package watch rebuilds the project whenever a contract source changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/solforge/internal/ctxlog"
	"github.com/specialistvlad/solforge/internal/fsutil"
)

// DefaultDebounce is how long the tree must be quiet before a rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc runs one build. Its error is logged; it never stops the watcher.
type BuildFunc func(ctx context.Context) error

// Stats describes the watcher's activity so far.
type Stats struct {
	Builds        int
	Failures      int
	LastEventPath string
	LastBuild     time.Time
}

// Watcher watches a source tree and runs builds one at a time.
type Watcher struct {
	root     string
	pattern  string
	build    BuildFunc
	debounce time.Duration

	mu        sync.RWMutex
	stats     Stats
	pending   bool
	lastEvent time.Time
}

// New creates a Watcher over every directory below root. Only files matching
// the glob pattern trigger builds.
func New(root, pattern string, build BuildFunc, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{root: root, pattern: pattern, build: build, debounce: debounce}
}

// Stats returns a snapshot of the watcher's counters.
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// Run builds once, then rebuilds after every settled burst of changes until
// ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("root", w.root)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	dirs, err := fsutil.FindDirs(w.root)
	if err != nil {
		return fmt.Errorf("failed to list source directories: %w", err)
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	logger.Info("Watching for changes.", "dirs", len(dirs))

	w.runBuild(ctx)

	ticker := time.NewTicker(w.debounce / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Watcher stopped.")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return errors.New("file watcher event channel closed")
			}
			w.handleEvent(ctx, fsw, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New("file watcher error channel closed")
			}
			logger.Error("File watcher error.", "error", err)

		case <-ticker.C:
			if w.settled() {
				w.runBuild(ctx)
			}
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, fsw *fsnotify.Watcher, event fsnotify.Event) {
	logger := ctxlog.FromContext(ctx)

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := fsw.Add(event.Name); err != nil {
				logger.Warn("Failed to watch new directory.", "dir", event.Name, "error", err)
			} else {
				logger.Debug("Watching new directory.", "dir", event.Name)
			}
			return
		}
	}

	if !fsutil.Match(w.pattern, event.Name) {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	logger.Debug("Source changed.", "path", event.Name, "op", event.Op.String())
	w.mu.Lock()
	w.pending = true
	w.lastEvent = time.Now()
	w.stats.LastEventPath = filepath.Clean(event.Name)
	w.mu.Unlock()
}

// settled reports whether changes are pending and the debounce window has
// passed since the last one. It clears the pending flag when it returns true.
func (w *Watcher) settled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.pending || time.Since(w.lastEvent) < w.debounce {
		return false
	}
	w.pending = false
	return true
}

func (w *Watcher) runBuild(ctx context.Context) {
	err := w.build(ctx)

	w.mu.Lock()
	w.stats.Builds++
	w.stats.LastBuild = time.Now()
	if err != nil {
		w.stats.Failures++
	}
	w.mu.Unlock()

	if err != nil && ctx.Err() == nil {
		ctxlog.FromContext(ctx).Error("Build failed, waiting for changes.", "error", err)
	}
}
