// Package catalog loads the technique catalog from disk and reloads it when
// the file changes.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"breathe-backend/domain/technique"
)

// Load reads the catalog at path, or the embedded catalog when path is empty
func Load(path string) (*technique.Catalog, error) {
	if path == "" {
		return technique.DefaultCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open techniques file: %w", err)
	}
	defer f.Close()
	return technique.LoadCatalog(f)
}

// Watcher swaps a reloaded catalog into a Holder whenever its file is
// written. A file that fails to parse leaves the current catalog in place.
type Watcher struct {
	path     string
	holder   *technique.Holder
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	debounce time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	onChange []func(*technique.Catalog)
}

// NewWatcher watches path and its directory, so editors that save by rename
// are noticed too
func NewWatcher(path string, holder *technique.Holder, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch techniques file: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		logger.Warn("Failed to watch techniques directory", zap.Error(err))
	}

	return &Watcher{
		path:     path,
		holder:   holder,
		watcher:  fw,
		logger:   logger,
		debounce: 100 * time.Millisecond,
		stopCh:   make(chan struct{}),
	}, nil
}

// OnChange registers a callback run after each successful reload
func (w *Watcher) OnChange(fn func(*technique.Catalog)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Start begins watching for changes
func (w *Watcher) Start() {
	go w.watchLoop()
	w.logger.Info("Technique catalog watcher started", zap.String("path", w.path))
}

// Stop stops watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
		w.logger.Info("Technique catalog watcher stopped")
	})
}

func (w *Watcher) watchLoop() {
	var debounceTimer *time.Timer

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(w.debounce, w.reload)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	next, err := Load(w.path)
	if err != nil {
		w.logger.Error("Invalid techniques file, keeping current catalog", zap.Error(err))
		return
	}

	previous := w.holder.Catalog().Len()
	w.holder.Swap(next)
	w.logger.Info("Technique catalog reloaded",
		zap.Int("previous", previous),
		zap.Int("current", next.Len()),
	)

	w.mu.Lock()
	handlers := append([]func(*technique.Catalog){}, w.onChange...)
	w.mu.Unlock()
	for _, fn := range handlers {
		fn(next)
	}
}
