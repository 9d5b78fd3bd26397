package watcher

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is how often the fallback poller stats the file.
const DefaultPollInterval = 2 * time.Second

// FileWatcher watches a single file and reports changes, debounced,
// through a callback. When the notify backend is unavailable it degrades
// to mtime polling.
type FileWatcher struct {
	path      string
	onChange  func()
	debouncer *Debouncer
	poll      time.Duration
}

// NewFileWatcher creates a watcher for the given file path.
func NewFileWatcher(path string, onChange func()) *FileWatcher {
	return &FileWatcher{
		path:      path,
		onChange:  onChange,
		debouncer: NewDebouncer(0),
		poll:      DefaultPollInterval,
	}
}

// Watch blocks until the context is cancelled, invoking the callback
// after each debounced change to the file.
func (w *FileWatcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return w.pollLoop(ctx)
	}
	defer fw.Close()

	// Watch the directory, not the file: editors replace files by rename,
	// which silently drops a watch set on the file itself.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return w.pollLoop(ctx)
	}

	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			w.debouncer.Cancel()
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.debouncer.Trigger(w.onChange)
		case _, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			// Transient errors on busy directories; keep watching.
		}
	}
}

func (w *FileWatcher) pollLoop(ctx context.Context) error {
	var lastMod time.Time
	if info, err := os.Stat(w.path); err == nil {
		lastMod = info.ModTime()
	}

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.debouncer.Cancel()
			return nil
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				continue
			}
			if mod := info.ModTime(); mod.After(lastMod) {
				lastMod = mod
				w.debouncer.Trigger(w.onChange)
			}
		}
	}
}
