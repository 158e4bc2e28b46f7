package colors

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/openpitwall/telemetry-compare-go/log"
)

// Watch reloads the registry whenever the color file changes on disk.
// Blocks until ctx is done; meant to run in its own goroutine.
func (r *Registry) Watch(ctx context.Context, path string, l *log.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// watch the directory: editors replace files instead of writing in place
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			fresh, loadErr := Load(path)
			if loadErr != nil {
				l.Warn("color file reload failed", log.ErrorField(loadErr))
				continue
			}
			r.Replace(fresh)
			l.Info("color file reloaded", log.String("file", path))
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.Warn("color file watcher", log.ErrorField(watchErr))
		}
	}
}
