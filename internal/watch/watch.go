// Package watch re-runs the export pipeline whenever a local source file
// changes. Events are debounced so editors that write in bursts trigger
// one run, not one per syscall.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docforge/internal/errors"
)

// DefaultDebounce is the quiet period after the last event before a re-run.
const DefaultDebounce = 2 * time.Second

// RunFunc executes one pipeline run.
type RunFunc func(ctx context.Context) error

// Watcher monitors one source file and re-runs on change.
type Watcher struct {
	path     string
	debounce time.Duration
	log      *slog.Logger
	run      RunFunc
	watcher  *fsnotify.Watcher
}

// New creates a watcher for a local source file. Remote sources cannot be
// watched.
func New(path string, debounce time.Duration, log *slog.Logger, run RunFunc) (*Watcher, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return nil, errors.ValidationFailed("source.ref", "watch mode requires a local file source")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.SourceUnreadable(path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, errors.SeverityFatal, "cannot create file watcher")
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		log:      log,
		run:      run,
		watcher:  fsw,
	}, nil
}

// Run performs an initial pipeline run, then blocks re-running on changes
// until the context is canceled. Failed runs are logged and watching
// continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	// Watching the directory survives editors that replace the file.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return errors.SourceUnreadable(w.path, err)
	}
	w.log.Info("watching source",
		slog.String("path", w.path),
		slog.Duration("debounce", w.debounce))

	w.runOnce(ctx)

	base := filepath.Base(w.path)
	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug("source event", slog.String("op", ev.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerC = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", slog.Any("error", err))
		case <-timerC:
			timer = nil
			timerC = nil
			w.log.Info("source changed, re-running")
			w.runOnce(ctx)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	if err := w.run(ctx); err != nil {
		w.log.Error("run failed", slog.Any("error", err))
	}
}
