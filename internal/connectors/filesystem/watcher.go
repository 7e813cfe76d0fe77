package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
	"github.com/custodia-labs/proxsearch/internal/logger"
)

// ErrWatcherClosed is returned by Watch after Close.
var ErrWatcherClosed = errors.New("watcher closed")

// changeBuffer is the capacity of the channel returned by Watch.
const changeBuffer = 16

// Watcher reports changes to a single file.
// It watches the parent directory so that editors which save by writing a
// new file and renaming it over the old one are still observed.
type Watcher struct {
	path string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// New creates a watcher for the file at path.
func New(path string) *Watcher {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &Watcher{path: filepath.Clean(path)}
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Watch starts watching and returns a channel of changes.
// The channel is closed when ctx is cancelled or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan domain.FileChange, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrWatcherClosed
	}

	info, err := os.Stat(w.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("watch %s: %w", w.path, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", w.path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("watch %s: is a directory: %w", w.path, domain.ErrInvalidInput)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.watcher = fw

	changes := make(chan domain.FileChange, changeBuffer)
	go w.loop(ctx, fw, changes)

	logger.Debug("watching %s", w.path)
	return changes, nil
}

// loop forwards relevant events until ctx is done or fw is closed.
func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, changes chan<- domain.FileChange) {
	defer close(changes)
	defer func() { _ = fw.Close() }()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			change := w.handleFsEvent(event)
			if change == nil {
				continue
			}
			select {
			case changes <- *change:
			case <-ctx.Done():
				return
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch %s: %v", w.path, err)
		}
	}
}

// handleFsEvent maps an fsnotify event to a change of the watched file.
// Events for other files and chmod-only events return nil.
func (w *Watcher) handleFsEvent(event fsnotify.Event) *domain.FileChange {
	if filepath.Clean(event.Name) != w.path {
		return nil
	}

	var changeType domain.ChangeType
	switch {
	case event.Has(fsnotify.Create):
		changeType = domain.ChangeCreated
	case event.Has(fsnotify.Write):
		changeType = domain.ChangeUpdated
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		changeType = domain.ChangeDeleted
	default:
		return nil
	}

	return &domain.FileChange{Type: changeType, Path: w.path}
}

// Close stops the watcher. It is safe to call more than once.
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
