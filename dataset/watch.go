// SPDX-License-Identifier: MIT

package dataset

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/katalvlaran/mrio/ingest"
)

// ErrNothingToWatch indicates neither source is a local file.
var ErrNothingToWatch = errors.New("dataset: no local sources to watch")

// Watch invalidates the cache whenever a local source file is written,
// created, renamed or removed, until ctx is done. Parent directories are
// watched so that editors which replace files by rename are seen too.
// Bursts of events within the debounce window cause one invalidation.
//
// Watch blocks; run it in its own goroutine. It returns nil when ctx ends.
func (c *Cache) Watch(ctx context.Context) error {
	targets := make(map[string]struct{}, 2)
	dirs := make(map[string]struct{}, 2)
	for _, uri := range [...]string{c.stressorsURI, c.leontiefURI} {
		loc, err := ingest.ParseLocation(uri)
		if err != nil {
			return err
		}
		if !loc.Local() {
			continue
		}
		abs, err := filepath.Abs(loc.Path)
		if err != nil {
			return fmt.Errorf("dataset: resolve %s: %w", uri, err)
		}
		targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	if len(targets) == 0 {
		return ErrNothingToWatch
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("dataset: create watcher: %w", err)
	}
	defer w.Close()
	for d := range dirs {
		if err = w.Add(d); err != nil {
			return fmt.Errorf("dataset: watch %s: %w", d, err)
		}
	}
	c.logger.Info("watching sources", zap.Int("files", len(targets)))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if _, hit := targets[filepath.Clean(ev.Name)]; !hit {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			c.logger.Debug("source changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(c.debounce)
			} else {
				timer.Reset(c.debounce)
			}
			fire = timer.C

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("watcher error", zap.Error(werr))

		case <-fire:
			fire = nil
			c.Invalidate()
			if c.eager {
				if _, err := c.Get(ctx); err != nil && ctx.Err() == nil {
					c.logger.Warn("eager reload failed", zap.Error(err))
				}
			}
		}
	}
}
