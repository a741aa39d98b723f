package settings

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the settings whenever the file is changed outside the service
// and emits settings_updated when the content actually differs. It returns
// once the watcher is running; watching stops when ctx is done.
func (s *Service) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory: atomic writes replace the file, which drops a
	// watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(s.path), err)
	}
	s.setWatching(true)

	name := filepath.Base(s.path)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer s.setWatching(false)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Base(event.Name) != name {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				s.reloadFromDisk()
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				s.logger.Warn("settings watcher error", "error", err)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("settings watcher panic", "error", err)
	}))

	return nil
}

func (s *Service) reloadFromDisk() {
	current, changed, err := s.Reload()
	if err != nil {
		// Editors often write in several steps; keep the last good settings.
		s.logger.Warn("settings reload failed", "path", s.path, "error", err)
		return
	}
	if changed {
		s.logger.Debug("settings reloaded", "path", s.path)
		s.emit(current)
	}
}

func (s *Service) setWatching(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watching = active
}
