package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the configuration file when it changes on disk and hands
// the fresh Config to a callback. Only file-backed settings change at runtime;
// consumers that captured values at construction keep them until restart.
type Watcher struct {
	path     string
	onReload func(*Config)
	logger   *zap.Logger
}

// NewWatcher creates a config file watcher
func NewWatcher(path string, onReload func(*Config), logger *zap.Logger) *Watcher {
	return &Watcher{
		path:     path,
		onReload: onReload,
		logger:   logger.Named("config.watcher"),
	}
}

// Watch blocks until the context is done, reloading on file changes.
// Editors often replace the file rather than writing in place, so the watch
// is on the parent directory and events are filtered by name.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := LoadConfig()
			if err != nil {
				w.logger.Warn("config reload failed, keeping previous config", zap.Error(err))
				continue
			}
			w.logger.Info("configuration reloaded", zap.String("path", w.path))
			w.onReload(cfg)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}
