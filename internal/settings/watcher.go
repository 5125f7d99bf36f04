package settings

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 250 * time.Millisecond

// Watcher observes the settings file for out-of-band edits and invokes a
// callback after each write settles. Editors and atomic renames produce
// bursts of events, so changes are debounced before the callback fires.
type Watcher struct {
	store  *FileStore
	logger *slog.Logger
	onEdit func()

	watcher *fsnotify.Watcher
	doneCh  chan struct{}
}

// NewWatcher builds a watcher for the store's backing file. onEdit runs on
// the watcher goroutine; callers needing serialization handle it themselves.
func NewWatcher(store *FileStore, logger *slog.Logger, onEdit func()) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		store:   store,
		logger:  logger,
		onEdit:  onEdit,
		watcher: fw,
		doneCh:  make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop exits when ctx ends.
func (w *Watcher) Start(ctx context.Context) error {
	// Watch the directory, not the file: atomic rename writes replace the
	// inode, which silently detaches a file-level watch.
	dir := filepath.Dir(w.store.Path())
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	go w.run(ctx)
	return nil
}

// Close stops the watcher and waits for the event loop to drain.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.doneCh
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	target := filepath.Clean(w.store.Path())
	var pending *time.Timer
	var pendingCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if pending == nil {
				pending = time.NewTimer(watchDebounce)
				pendingCh = pending.C
			} else {
				pending.Reset(watchDebounce)
			}
		case <-pendingCh:
			pending = nil
			pendingCh = nil
			w.logger.Debug("settings file changed externally", "path", target)
			w.onEdit()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("settings watcher error", "err", err)
		}
	}
}
