package fsload

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/linealign/linealign/internal/logging"
)

// Watcher reports external modification of loaded files. Each watched path is delivered on Changed at most once per debounce window; consumers typically
// re-Stat the path and compare identities before prompting for a reload.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration

	// Changed carries the paths of files that were written, removed, or renamed.
	Changed chan string

	mu      sync.Mutex
	watched map[string]bool
	timers  map[string]*time.Timer

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewWatcher creates a watcher with the given debounce window (editors fire several events per save).
func NewWatcher(debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsload: create watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		Changed:  make(chan string, 16),
		watched:  make(map[string]bool),
		timers:   make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Watch adds path to the watch set. The parent directory is watched so that remove-and-recreate saves keep being reported.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("fsload: watch %s: %w", path, err)
	}
	w.mu.Lock()
	w.watched[abs] = true
	w.mu.Unlock()
	if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("fsload: watch %s: %w", path, err)
	}
	return nil
}

// Close stops the watcher. Changed stays open (pending debounce timers may still be draining) but carries nothing further once they fire.
func (w *Watcher) Close() error {
	close(w.stopCh)
	err := w.fsw.Close()
	<-w.doneCh
	w.mu.Lock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()
	return err
}

func (w *Watcher) loop() {
	defer close(w.doneCh)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.L().Warn("file watcher error", zap.Error(err))
		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.watched[abs] {
		return
	}
	if t, ok := w.timers[abs]; ok {
		t.Stop()
	}
	w.timers[abs] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, abs)
		w.mu.Unlock()
		select {
		case w.Changed <- abs:
		case <-w.stopCh:
		}
	})
}
