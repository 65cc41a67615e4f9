// Package watcher implements repository watching for the watch command.
package watcher

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"unique"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/vcsstamp/internal/adapters/fs"
	"go.trai.ch/vcsstamp/internal/core/domain"
	"go.trai.ch/vcsstamp/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 100

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	walker    *fs.Walker
	logger    ports.Logger
	events    chan ports.WatchEvent

	mu      sync.Mutex
	watched map[unique.Handle[string]]struct{}
}

// NewWatcher creates a new file system watcher.
func NewWatcher(walker *fs.Walker, logger ports.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}
	return &Watcher{
		fsWatcher: watcher,
		walker:    walker,
		logger:    logger,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
		watched:   make(map[unique.Handle[string]]struct{}),
	}, nil
}

// Start begins watching paths. Directories are watched recursively.
// A file is watched through its parent directory so atomic replacements are seen.
func (w *Watcher) Start(ctx context.Context, paths []string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "path", path)
		}

		if !info.IsDir() {
			if err := w.add(filepath.Dir(path)); err != nil {
				return err
			}
			continue
		}

		for dir := range w.walker.WalkDirs(path) {
			if err := w.add(dir); err != nil {
				return err
			}
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events.
// The sequence ends when the watcher is stopped or its context is cancelled.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// add watches dir once.
func (w *Watcher) add(dir string) error {
	handle := unique.Make(filepath.Clean(dir))

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.watched[handle]; ok {
		return nil
	}
	if err := w.fsWatcher.Add(handle.Value()); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "path", handle.Value())
	}
	w.watched[handle] = struct{}{}
	return nil
}

// processEvents converts fsnotify events to ports.WatchEvent until the watcher closes.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, ok := convertEvent(event)
			if !ok {
				continue
			}

			// New ref directories (e.g. refs/heads/feature/) are watched as they appear.
			if watchEvent.Operation == ports.OpCreate {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					for dir := range w.walker.WalkDirs(event.Name) {
						if err := w.add(dir); err != nil {
							w.logger.Error(err)
						}
					}
				}
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error(zerr.Wrap(err, "watcher: file system error"))
		}
	}
}

// convertEvent maps an fsnotify event to a ports.WatchEvent. Chmod-only events are dropped.
func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}

	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
