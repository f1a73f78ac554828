// Package watch reports changes made by other programs to the open document.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mindnoscape/canvas-app/internal/log"
)

// DefaultDebounce is how long a file has to stay quiet before a change is reported.
const DefaultDebounce = 200 * time.Millisecond

// Watcher follows a single file. The containing directory is watched so
// files replaced through a rename keep being followed.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *log.Logger
	debounce time.Duration
	changes  chan string

	mu    sync.Mutex
	dir   string
	path  string
	timer *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New starts a watcher. Call Close to release it.
func New(logger *log.Logger, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if logger == nil {
		logger = log.NewDiscard()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		watcher:  fw,
		logger:   logger,
		debounce: debounce,
		changes:  make(chan string, 1),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.watchLoop()
	return w, nil
}

// Changes delivers the path of the followed file after it was modified.
// Notifications are coalesced; a slow reader sees at most one pending path.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Watch follows path instead of the previously watched file.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if dir != w.dir {
		if w.dir != "" {
			_ = w.watcher.Remove(w.dir)
		}
		if err := w.watcher.Add(dir); err != nil {
			w.dir, w.path = "", ""
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.dir = dir
	}
	w.path = abs
	w.stopTimer()
	return nil
}

// Unwatch stops following the current file.
func (w *Watcher) Unwatch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dir != "" {
		_ = w.watcher.Remove(w.dir)
	}
	w.dir, w.path = "", ""
	w.stopTimer()
}

// Path returns the absolute path being followed, or "".
func (w *Watcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	<-w.done
	w.mu.Lock()
	w.stopTimer()
	w.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to close file watcher: %w", err)
	}
	return nil
}

func (w *Watcher) stopTimer() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case <-w.ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule(ev.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(w.ctx, "File watcher error", log.Fields{"error": err})
		}
	}
}

// schedule restarts the quiet period for name if it is the followed file.
func (w *Watcher) schedule(name string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if abs != w.path {
		return
	}
	w.stopTimer()
	path := w.path
	w.timer = time.AfterFunc(w.debounce, func() { w.notify(path) })
}

func (w *Watcher) notify(path string) {
	if w.Path() != path {
		return
	}
	select {
	case w.changes <- path:
	default:
	}
}
