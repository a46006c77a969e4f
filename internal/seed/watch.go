package seed

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dress2mydoor/dress2mydoor/internal/logger"
)

// watch blocks until ctx is done, re-syncing whenever one of files is
// written or replaced. Parent directories are watched rather than the files
// themselves so that editors which save by renaming a temp file over the
// original keep triggering.
func (d *Driver) watch(ctx context.Context, files []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		watched[filepath.Clean(f)] = true
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	d.setState(StateWatching)
	logger.Info("watch mode enabled, watching HTML files for changes", "files", len(files))

	pending := make(map[string]bool)
	timer := time.NewTimer(d.opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(ev.Name)
			if !watched[name] || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			logger.Debug("file event", "file", name, "op", ev.Op.String())
			pending[name] = true
			timer.Reset(d.opts.Debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			sort.Strings(changed)
			clear(pending)
			for _, name := range changed {
				d.resync(ctx, name)
			}
		}
	}
}
