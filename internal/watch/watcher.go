package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher calls OnChange after any watched file is written, created or
// renamed. Bursts of events within Debounce collapse into one call.
type Watcher struct {
	Files    []string
	Debounce time.Duration
	OnChange func(ctx context.Context, changed []string)
	Logger   *zap.Logger
}

func New(files []string, onChange func(ctx context.Context, changed []string), logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		Files:    files,
		Debounce: 500 * time.Millisecond,
		OnChange: onChange,
		Logger:   logger,
	}
}

// Run blocks until ctx is cancelled. Directories are watched rather than the
// files themselves so editors that replace files on save are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	wanted := make(map[string]bool, len(w.Files))
	dirs := make(map[string]bool)
	for _, f := range w.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		wanted[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch '%s': %w", dir, err)
		}
	}
	w.Logger.Info("Watching input files", zap.Int("files", len(wanted)), zap.Int("dirs", len(dirs)))

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending = map[string]bool{}
	)
	stop := func() {
		if timer != nil {
			timer.Stop()
		}
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(ev.Name)
			if !wanted[abs] || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			w.Logger.Debug("Input changed", zap.String("file", abs), zap.String("op", ev.Op.String()))
			pending[abs] = true
			stop()
			timer = time.NewTimer(w.Debounce)
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("Watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for f := range pending {
				changed = append(changed, f)
			}
			pending = map[string]bool{}
			w.OnChange(ctx, changed)
		}
	}
}
