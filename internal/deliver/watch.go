package deliver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a run directory must stay quiet before a
// change triggers regeneration.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reports changes to module input artifacts under a run directory.
// Files the aggregator writes itself are ignored so regeneration does not
// retrigger.
type Watcher struct {
	runDir   string
	layout   Layout
	debounce time.Duration
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
}

// NewWatcher watches runDir and every module directory already in it.
func NewWatcher(runDir string, layout Layout, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Watcher{
		runDir:   runDir,
		layout:   layout.Merge(),
		debounce: DefaultDebounce,
		logger:   logger,
		watcher:  fw,
	}

	if err := fw.Add(runDir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", runDir, err)
	}
	dirs, err := ModuleDirs(runDir)
	if err != nil {
		fw.Close()
		return nil, err
	}
	for _, m := range dirs {
		w.add(m.Path)
	}
	return w, nil
}

// SetDebounce overrides DefaultDebounce.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) add(dir string) {
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Warn("cannot watch module directory", zap.String("dir", dir), zap.Error(err))
		return
	}
	w.logger.Debug("watching module directory", zap.String("dir", dir))
}

// Run calls onChange once per burst of relevant events until ctx is done.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	ticker := time.NewTicker(w.debounce / 5)
	defer ticker.Stop()

	var pending time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.logger.Debug("change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))
				pending = time.Now().Add(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", zap.Error(err))

		case now := <-ticker.C:
			if !pending.IsZero() && !now.Before(pending) {
				pending = time.Time{}
				onChange()
			}
		}
	}
}

// relevant reports whether an event touches aggregation input. New module
// directories are added to the watch list as a side effect.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}

	parent := filepath.Dir(event.Name)
	if filepath.Clean(parent) == filepath.Clean(w.runDir) {
		if _, ok := ParseModuleName(name); !ok {
			return false
		}
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				w.add(event.Name)
			}
		}
		return true
	}

	if _, ok := ParseModuleName(filepath.Base(parent)); !ok {
		return false
	}
	switch name {
	case w.layout.GraphML, w.layout.Archive:
		return false
	case w.layout.Network, w.layout.Label, w.layout.Enrichment,
		w.layout.Interactive, w.layout.Hubs, w.layout.Report:
		return true
	}
	return filepath.Ext(name) == ".json"
}
