// Package watcher monitors a Python project tree and reports batched
// source changes, driving continuous requirements regeneration.
package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last change before the
// callback fires. Editors often write a file several times in quick
// succession; one rescan per burst is enough.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a project root recursively for Python source changes
// and invokes a callback with the batch of changed paths after a
// debounce interval.
type Watcher struct {
	fs           *fsnotify.Watcher
	root         string
	excluded     map[string]bool
	debounceTime time.Duration
	callback     func(changed []string)

	cancel context.CancelFunc
	doneCh chan struct{}

	changedMu sync.Mutex
	changed   map[string]bool

	timerMu       sync.Mutex
	debounceTimer *time.Timer

	stopOnce sync.Once
}

// New creates a watcher over root. Directories whose base name appears
// in excludeNames are never watched, so virtual environments and caches
// do not generate events.
func New(root string, excludeNames []string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(excludeNames))
	for _, name := range excludeNames {
		excluded[name] = true
	}

	w := &Watcher{
		fs:           fs,
		root:         root,
		excluded:     excluded,
		debounceTime: DefaultDebounce,
		changed:      make(map[string]bool),
		doneCh:       make(chan struct{}),
	}

	if err := w.addRecursively(root); err != nil {
		fs.Close()
		return nil, err
	}

	return w, nil
}

// Start begins watching. The callback receives absolute paths of
// changed .py files, deduplicated within each debounce window.
func (w *Watcher) Start(ctx context.Context, callback func(changed []string)) error {
	if callback == nil {
		return nil
	}

	w.callback = callback
	ctx, w.cancel = context.WithCancel(ctx)

	go w.run(ctx)
	return nil
}

// Stop shuts the watcher down. Safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.doneCh
		} else {
			close(w.doneCh)
		}
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	fireCh := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.stopDebounceTimer()
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}

			// New directories join the watch set so files created
			// inside them are seen.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !w.excluded[filepath.Base(event.Name)] {
						if err := w.addRecursively(event.Name); err != nil {
							log.Printf("warning: failed to watch new directory %s: %v", event.Name, err)
						}
					}
				}
			}

			if !w.relevant(event) {
				continue
			}

			w.changedMu.Lock()
			w.changed[event.Name] = true
			w.changedMu.Unlock()

			w.resetDebounceTimer(fireCh)

		case <-fireCh:
			w.fire()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("watch error: %v", err)
		}
	}
}

// fire drains the accumulated batch into the callback.
func (w *Watcher) fire() {
	w.changedMu.Lock()
	if len(w.changed) == 0 {
		w.changedMu.Unlock()
		return
	}
	files := make([]string, 0, len(w.changed))
	for file := range w.changed {
		files = append(files, file)
	}
	w.changed = make(map[string]bool)
	w.changedMu.Unlock()

	w.callback(files)
}

func (w *Watcher) resetDebounceTimer(fireCh chan struct{}) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.debounceTimer != nil {
		if !w.debounceTimer.Stop() {
			select {
			case <-w.debounceTimer.C:
			default:
			}
		}
	}

	w.debounceTimer = time.AfterFunc(w.debounceTime, func() {
		select {
		case fireCh <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopDebounceTimer() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
}

// relevant reports whether an event concerns a Python source file in a
// non-excluded location.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if filepath.Ext(event.Name) != ".py" {
		return false
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if w.excluded[part] {
			return false
		}
	}
	return true
}

// addRecursively registers every non-excluded directory under rootPath.
func (w *Watcher) addRecursively(rootPath string) error {
	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			log.Printf("warning: error accessing %s: %v", path, err)
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != rootPath && w.excluded[info.Name()] {
			return filepath.SkipDir
		}

		if err := w.fs.Add(path); err != nil {
			log.Printf("warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}
