package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	ioutils "github.com/handiism/radiotracks/internal/io"
)

const watchOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove | fsnotify.Chmod

// Watch invalidates the memoized dataset when another process rewrites the
// cache file. onChange, when not nil, is called after each invalidation.
//
// The cache directory is created if needed. Watching stops when ctx is done.
func (c *Catalog) Watch(ctx context.Context, onChange func()) error {
	path := filepath.Clean(c.store.Path())
	dir := filepath.Dir(path)

	if err := ioutils.EnsureDir(dir); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go c.watchLoop(ctx, watcher, path, onChange)

	c.logger.WithField("cache", path).Info("Cache watcher started")
	return nil
}

func (c *Catalog) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string, onChange func()) {
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path || event.Op&watchOps == 0 {
				continue
			}
			if c.externalChange() {
				c.logger.WithField("op", event.Op.String()).Info("Cache file changed on disk")
				c.progress(ProgressEvent{Message: "Cache file changed on disk", Level: LevelVerbose})
				if onChange != nil {
					onChange()
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.logger.WithError(err).Error("Cache watcher error")
		}
	}
}

// externalChange drops the memo when the file no longer matches it. Events
// raised while a sync is running come from that sync and are ignored.
func (c *Catalog) externalChange() bool {
	if !c.syncMu.TryLock() {
		return false
	}
	defer c.syncMu.Unlock()

	c.mu.RLock()
	memoTime, loaded := c.modTime, c.current != nil
	c.mu.RUnlock()

	mt, err := c.store.ModTime()
	if err == nil && loaded && mt.Equal(memoTime) {
		return false
	}
	c.Invalidate()
	return true
}
