package engine

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch spawns a filesystem watcher over the project root and, on a
// fixed debounce, feeds every batch of changed/created/removed paths to
// UpdateFiles (spec §4.11 watch: "batch events on a 500ms debounce;
// filter for relevant paths; feed to update_files").
//
// Grounded on the teacher's internal/indexing.FileWatcher/eventDebouncer:
// one watch per directory (fsnotify has no recursive mode), a directory
// created mid-run gets its own watch added on the fly, and a single
// debounce timer coalesces a burst of events into one update_files call
// rather than one per file.
func (e *Engine) Watch(ctx context.Context) error {
	if !e.cfg.Index.WatchMode {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	root := e.cfg.Project.Root
	if root == "" {
		root = "."
	}
	if err := addWatchDirs(watcher, root, e); err != nil {
		watcher.Close()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	e.watchCancel = cancel

	debounce := time.Duration(e.cfg.Index.WatchDebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	db := newDebouncer(debounce, func(paths []string) {
		if _, err := e.UpdateFiles(ctx, paths); err != nil {
			e.metrics.ObserveThroughput("engine_watch_error", 1)
		}
	})

	go func() {
		defer watcher.Close()
		defer db.stop()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				e.handleWatchEvent(watcher, ev, db)
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return nil
}

// StopWatching cancels a running Watch goroutine. A no-op if Watch was
// never called or watching is already stopped.
func (e *Engine) StopWatching() {
	if e.watchCancel != nil {
		e.watchCancel()
	}
}

func (e *Engine) handleWatchEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, db *debouncer) {
	info, err := os.Stat(ev.Name)
	if err != nil {
		// Likely a removal; still worth an update_files call so the
		// path's nodes get cleared.
		if e.relevantPath(ev.Name) {
			db.add(ev.Name)
		}
		return
	}
	if info.IsDir() {
		if ev.Op&fsnotify.Create != 0 {
			_ = addWatchDirs(watcher, ev.Name, e)
		}
		return
	}
	if e.relevantPath(ev.Name) {
		db.add(ev.Name)
	}
}

// relevantPath reports whether path is one a registered plugin cares
// about -- the watcher's "filter for relevant paths" step.
func (e *Engine) relevantPath(path string) bool {
	_, ok := e.registry.ForPath(path)
	return ok
}

func addWatchDirs(watcher *fsnotify.Watcher, root string, e *Engine) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if rel != "." && matchesAny(e.cfg.Exclude, rel, path) {
			return filepath.SkipDir
		}
		_ = watcher.Add(path)
		return nil
	})
}

// debouncer coalesces a burst of path changes into one flush call after
// a quiet period, the same shape as the teacher's eventDebouncer.
type debouncer struct {
	mu     sync.Mutex
	paths  map[string]bool
	delay  time.Duration
	timer  *time.Timer
	onFire func(paths []string)
}

func newDebouncer(delay time.Duration, onFire func(paths []string)) *debouncer {
	return &debouncer{paths: make(map[string]bool), delay: delay, onFire: onFire}
}

func (d *debouncer) add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paths[path] = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *debouncer) flush() {
	d.mu.Lock()
	paths := make([]string, 0, len(d.paths))
	for p := range d.paths {
		paths = append(paths, p)
	}
	d.paths = make(map[string]bool)
	d.mu.Unlock()

	if len(paths) == 0 {
		return
	}
	d.onFire(paths)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
