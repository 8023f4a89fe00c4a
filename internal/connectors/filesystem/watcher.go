package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/logger"
)

// DefaultSettleDelay is how long a file must go unmodified before it is read.
const DefaultSettleDelay = 500 * time.Millisecond

// ErrWatcherClosed is returned by Watch after Close.
var ErrWatcherClosed = errors.New("watcher is closed")

// Watcher emits supported files as they appear in a directory.
// Subdirectories are not watched.
type Watcher struct {
	root        string
	settleDelay time.Duration

	mu      sync.Mutex
	closed  bool
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for dir. A zero settle delay uses DefaultSettleDelay.
func NewWatcher(dir string, settleDelay time.Duration) *Watcher {
	if settleDelay <= 0 {
		settleDelay = DefaultSettleDelay
	}
	return &Watcher{root: dir, settleDelay: settleDelay}
}

// Watch starts watching. The returned channel is closed when ctx is done or
// the watcher is closed. Files that cannot be read are logged and dropped.
func (w *Watcher) Watch(ctx context.Context) (<-chan domain.SourceFile, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrWatcherClosed
	}
	info, err := os.Stat(w.root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", w.root)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(w.root); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", w.root, err)
	}
	w.watcher = fw

	out := make(chan domain.SourceFile)
	go w.run(ctx, fw, out)
	return out, nil
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher, out chan<- domain.SourceFile) {
	defer close(out)
	defer fw.Close()

	// pending holds a settle deadline per path; ready fires when the
	// earliest deadline passes.
	pending := make(map[string]time.Time)
	ready := time.NewTimer(time.Hour)
	ready.Stop()

	reschedule := func() {
		var next time.Time
		for _, at := range pending {
			if next.IsZero() || at.Before(next) {
				next = at
			}
		}
		if !next.IsZero() {
			ready.Reset(time.Until(next))
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			path, settle := w.handleFsEvent(event)
			if path == "" {
				continue
			}
			if settle {
				pending[path] = time.Now().Add(w.settleDelay)
			} else {
				delete(pending, path)
			}
			reschedule()

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("Watch error on %s: %v", w.root, err)

		case <-ready.C:
			now := time.Now()
			for path, at := range pending {
				if at.After(now) {
					continue
				}
				delete(pending, path)
				f, err := ReadFile(path)
				if err != nil {
					logger.Warn("Skipping %s: %v", path, err)
					continue
				}
				if !f.IsSupported() {
					logger.Debug("Skipping %s (%s)", path, f.MIMEType)
					continue
				}
				select {
				case out <- f:
				case <-ctx.Done():
					return
				}
			}
			reschedule()
		}
	}
}

// handleFsEvent returns the path an event concerns and whether the file
// should be (re)scheduled. A removal or rename returns settle=false so a
// pending read is dropped. Irrelevant events return an empty path.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (path string, settle bool) {
	if isHidden(filepath.Base(event.Name)) {
		return "", false
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return event.Name, false
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || !info.Mode().IsRegular() {
			return "", false
		}
		return event.Name, true
	default:
		return "", false
	}
}
