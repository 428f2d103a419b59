package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 500 * time.Millisecond

// debouncer runs fn once after calls to trigger stop arriving for delay.
type debouncer struct {
	delay time.Duration
	fn    func()

	mu    sync.Mutex
	timer *time.Timer
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// watcher rebuilds the site when anything under a directory tree changes.
type watcher struct {
	fs       *fsnotify.Watcher
	ignore   string
	debounce *debouncer
	logger   *log.Logger
}

// newWatcher watches every directory under dir. Events under ignore, usually
// the output directory, never trigger a rebuild.
func newWatcher(dir, ignore string, rebuild func(), logger *log.Logger) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{
		fs:       fw,
		debounce: &debouncer{delay: debounceDelay, fn: rebuild},
		logger:   logger,
	}
	if ignore != "" {
		if abs, err := filepath.Abs(ignore); err == nil {
			w.ignore = abs
		}
	}
	if err := w.addTree(dir); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

func (w *watcher) ignored(path string) bool {
	if w.ignore == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == w.ignore || strings.HasPrefix(abs, w.ignore+string(filepath.Separator))
}

// run dispatches events until ctx is done.
func (w *watcher) run(ctx context.Context) error {
	defer w.debounce.stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if w.ignored(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				// new directories are not watched automatically
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.logger.Warn("unable to watch", "dir", ev.Name, "err", err)
					}
				}
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.logger.Debug("change", "path", ev.Name, "op", ev.Op)
				w.debounce.trigger()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

func (w *watcher) Close() error {
	return w.fs.Close()
}
