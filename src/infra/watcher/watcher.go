package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/formantjeff/setlist/src/features/config"
	"github.com/fsnotify/fsnotify"
)

const DEBOUNCE_SECS = 2

// Watcher monitors the config file and hot-reloads it on change.
type Watcher struct {
	watcher       *fsnotify.Watcher
	configPath    string
	manager       *config.Manager
	debounceTimer *time.Timer
	debounceMutex sync.Mutex
	running       bool
	stopChan      chan struct{}
}

// NewWatcher creates a new config file watcher
func NewWatcher(manager *config.Manager, configPath string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:    watcher,
		manager:    manager,
		configPath: configPath,
		stopChan:   make(chan struct{}),
	}, nil
}

// Start begins watching the config file's directory. Watching the
// directory instead of the file survives editors that replace the file
// on save.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.configPath)
	slog.Info("Starting config watcher", "path", w.configPath)

	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	w.running = true
	go w.watchLoop(ctx)

	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() {
	if !w.running {
		return
	}

	slog.Info("Stopping config watcher")
	w.running = false
	close(w.stopChan)

	w.debounceMutex.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.debounceMutex.Unlock()

	w.watcher.Close()
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Config watcher error", "error", err)

		case <-w.stopChan:
			return

		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(w.configPath) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	w.debounceMutex.Lock()
	defer w.debounceMutex.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(time.Duration(DEBOUNCE_SECS)*time.Second, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := config.Read(w.configPath)
	if err != nil {
		slog.Error("Config reload failed, keeping current configuration",
			"path", w.configPath, "error", err)
		return
	}
	w.manager.Update(cfg)
	slog.Info("Configuration reloaded", "path", w.configPath)
}
