package challenge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a registry when YAML files under a directory change
type Watcher struct {
	registry *Registry
	dir      string
	debounce time.Duration

	// onReload is called after each reload attempt; used by tests
	onReload func(error)
}

// NewWatcher creates a watcher for dir
func NewWatcher(registry *Registry, dir string) *Watcher {
	return &Watcher{registry: registry, dir: dir, debounce: DefaultDebounce}
}

// Run watches until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create challenges directory: %w", err)
	}
	if err := w.addTree(fw); err != nil {
		return err
	}

	slog.Info("watching challenge packs", "dir", w.dir)

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	schedule := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, w.reload)
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.Add(event.Name); err != nil {
						slog.Warn("watch pack directory", "dir", event.Name, "error", err)
					}
					schedule()
					continue
				}
			}
			if !isPackFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				schedule()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("challenge watcher error", "error", err)
		}
	}
}

func (w *Watcher) addTree(fw *fsnotify.Watcher) error {
	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", w.dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := fw.Add(filepath.Join(w.dir, entry.Name())); err != nil {
			return fmt.Errorf("watch %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func (w *Watcher) reload() {
	err := w.registry.Load()
	if err != nil {
		slog.Warn("challenge reload failed, keeping previous catalogue", "error", err)
	} else {
		stats := w.registry.Stats()
		slog.Info("challenges reloaded", "packs", stats.PackCount, "challenges", stats.ChallengeCount)
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}

func isPackFile(name string) bool {
	return filepath.Ext(name) == ".yaml"
}
