package requirements

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher re-normalizes the requirements location whenever a specification
// file changes. Used by the reqsync watch subcommand during local edits.
type Watcher struct {
	Dir        string
	Normalizer Normalizer
	Logger     *zap.Logger

	// Debounce coalesces editor write bursts. Defaults to 250ms.
	Debounce time.Duration
}

// Watch blocks until ctx is cancelled, normalizing on each change burst.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return err
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			ext := filepath.Ext(event.Name)
			if ext != ".yaml" && ext != ".yml" {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				timer.Reset(debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			if w.Logger != nil {
				w.Logger.Warn("watch error", zap.Error(err))
			}

		case <-timerC:
			timer = nil
			timerC = nil
			if err := w.Normalizer.Normalize(ctx, w.Dir); err != nil {
				if w.Logger != nil {
					w.Logger.Error("normalize failed", zap.Error(err))
				}
				continue
			}
			if w.Logger != nil {
				w.Logger.Info("requirement specs normalized", zap.String("dir", w.Dir))
			}
		}
	}
}
