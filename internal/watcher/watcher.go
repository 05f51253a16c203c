// Package watcher rebuilds the timeline when the content tree changes.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"timeline-media/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 500 * time.Millisecond

// RebuildFunc is called with the changed paths after a quiet period. An
// error is logged and watching continues.
type RebuildFunc func(ctx context.Context, changed []string) error

// Watch watches root and its event directories and calls rebuild once
// changes have settled for debounce. Rebuilds never overlap. It blocks
// until ctx is done.
func Watch(ctx context.Context, root string, debounce time.Duration, rebuild RebuildFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	dirs, err := eventDirs(root)
	if err != nil {
		return err
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			logging.Warn("Could not watch %s: %v", d, err)
		}
	}
	logging.Info("Watching %d directories in %s", len(dirs), root)

	var (
		pending = make(map[string]bool)
		timer   *time.Timer
		fire    <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if isHidden(event.Name) {
				continue
			}

			// New event directories directly under root are watched too.
			if event.Has(fsnotify.Create) && filepath.Dir(event.Name) == filepath.Clean(root) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.Add(event.Name); err != nil {
						logging.Warn("Could not watch %s: %v", event.Name, err)
					}
				}
			}

			if event.Op == fsnotify.Chmod {
				continue
			}

			pending[event.Name] = true
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = make(map[string]bool)

			logging.Info("Rebuilding after %d change(s)", len(changed))
			if err := rebuild(ctx, changed); err != nil {
				logging.Error("Rebuild failed: %v", err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.Warn("Watch error: %v", err)
		}
	}
}

// eventDirs returns root and its visible subdirectories.
func eventDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}

	dirs := []string{root}
	for _, e := range entries {
		if e.IsDir() && !isHidden(e.Name()) {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	return dirs, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
