// Package watch reports working copy changes so the status view can refresh
// itself after edits made outside the tool.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher watches every directory of a working copy and calls onChange,
// debounced, after files are written, created, removed or renamed.
type Watcher struct {
	root     string
	marker   string
	logger   *zap.Logger
	fsw      *fsnotify.Watcher
	debounce *Debouncer
}

// New starts watching root. marker is the svn metadata directory; writes
// inside it (svn add/commit) also trigger a refresh, but it is not walked.
func New(root, marker string, delay time.Duration, onChange func(), logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &Watcher{
		root:     root,
		marker:   marker,
		logger:   logger,
		fsw:      fsw,
		debounce: NewDebouncer(delay, onChange),
	}
	for _, dir := range w.watchPaths() {
		logger.Debug("Adding path to FS watcher", zap.String("path", dir))
		if err := fsw.Add(dir); err != nil {
			err := errors.Join(err, fsw.Close())
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// watchPaths returns root, every directory below it outside the marker, and
// the marker itself.
func (w *Watcher) watchPaths() []string {
	var dirs []string
	_ = filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && d.Name() == w.marker {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	markerDir := filepath.Join(w.root, w.marker)
	if info, err := os.Stat(markerDir); err == nil && info.IsDir() {
		dirs = append(dirs, markerDir)
	}
	return dirs
}

// Run delivers events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if shouldIgnore(ev.Name) {
				continue
			}
			w.logger.Debug("fsnotify event",
				zap.String("op", ev.Op.String()),
				zap.String("path", ev.Name))
			if ev.Op&fsnotify.Create != 0 {
				w.addIfDir(ev.Name)
			}
			w.debounce.Trigger()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("fsnotify error", zap.Error(err))
		}
	}
}

// addIfDir starts watching a directory created after startup.
func (w *Watcher) addIfDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Debug("Failed to watch new directory", zap.String("path", path), zap.Error(err))
	}
}

// Close stops the watcher and drops any pending refresh.
func (w *Watcher) Close() error {
	w.debounce.Stop()
	return w.fsw.Close()
}

// shouldIgnore skips svn's own lock and temp churn.
func shouldIgnore(name string) bool {
	base := filepath.Base(name)
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case ext == ".lock", ext == ".ipc", ext == ".tmp":
		return true
	case strings.HasPrefix(base, "wc.db-journal"), strings.HasSuffix(base, "-wal"), strings.HasSuffix(base, "-shm"):
		return true
	}
	return strings.Contains(filepath.ToSlash(name), "/.svn/tmp/")
}
