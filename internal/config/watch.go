package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadHandler receives the re-loaded configuration, or the load
// error, whenever the watched file changes.
type ReloadHandler func(cfg Config, err error)

// Watcher reloads a configuration file on change. It watches the
// file's directory rather than the file itself so editors that replace
// the file on save keep triggering events.
type Watcher struct {
	fw   *fsnotify.Watcher
	path string

	done chan struct{}
	wg   sync.WaitGroup
}

// debounceWindow coalesces the event bursts a single save produces.
const debounceWindow = 100 * time.Millisecond

// Watch starts watching path and calls onReload after each change.
func Watch(path string, onReload ReloadHandler) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{fw: fw, path: abs, done: make(chan struct{})}
	w.wg.Add(1)
	go w.loop(onReload)
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop(onReload ReloadHandler) {
	defer w.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			onReload(Load(w.path))
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}
