package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/studynotes/pkg/core"
)

const debounceDelay = 50 * time.Millisecond

// Watch emits debounced change events for vault files matching pattern
// (a doublestar glob relative to the vault root). Writes made by Export are
// not reported. The channel is closed once ctx is cancelled and the watcher
// has stopped.
func (v *Vault) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, &core.ValidationError{Fields: map[string]string{"pattern": fmt.Sprintf("%q is not a valid glob", pattern)}}
	}

	events := make(chan core.Event)
	spec := supervisor.Spec{
		Name: "vault-watcher",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			return newWatchWorker(v, pattern, events), nil
		},
		Backoff: supervisor.Backoff{
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     2 * time.Second,
			Multiplier:      2,
			ResetDuration:   30 * time.Second,
			MaxRestarts:     5,
			MaxDuration:     time.Minute,
		},
		RestartPolicy: supervisor.RestartOnFailure,
	}

	sup := supervisor.New("vault", supervisor.StrategyOneForOne, spec)
	if err := sup.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := sup.Stop(stopCtx); err != nil {
			v.config.Logger.Warn("watcher stop", "error", err)
		}
		close(events)
		return nil
	}, lifecycle.WithErrorHandler(v.reportError))

	return events, nil
}

func (v *Vault) reportError(err error) {
	if v.config.ErrorHandler != nil {
		v.config.ErrorHandler(err)
		return
	}
	v.config.Logger.Error("vault watcher", "error", err)
}

type watchWorker struct {
	*worker.BaseWorker
	vault     *Vault
	pattern   string
	events    chan<- core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

func newWatchWorker(v *Vault, pattern string, events chan<- core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("vault-watcher"),
		vault:      v,
		pattern:    pattern,
		events:     events,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.addTree(watcher, w.vault.Path); err != nil {
		_ = watcher.Close()
		return err
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(debounceDelay)
	w.vault.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"pattern":           w.pattern,
		}
	})
}

// addTree watches root and every directory below it except the system dir.
func (w *watchWorker) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (d.Name() == w.vault.config.SystemDir || d.Name() == ".git") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			logger := w.vault.config.Logger
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer w.vault.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.loop(ctx)

	// Timers still firing may write to events; wait before the channel closes.
	w.debouncer.stopAndWait(5 * time.Second)
	return err
}

func (w *watchWorker) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher events channel closed")
			}
			w.handle(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher errors channel closed")
			}
			w.vault.reportError(wErr)
		}
	}
}

func (w *watchWorker) handle(ctx context.Context, event fsnotify.Event) {
	logger := w.vault.config.Logger
	logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	rel, err := filepath.Rel(w.vault.Path, event.Name)
	if err != nil || isTempFile(rel) || w.vault.inSystemDir(rel) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(w.watcher, event.Name); err != nil {
				w.vault.reportError(err)
			}
			return
		}
	}
	if ok, _ := doublestar.Match(w.pattern, filepath.ToSlash(rel)); !ok {
		return
	}

	var eType core.EventType
	switch {
	case event.Has(fsnotify.Create):
		eType = core.EventCreate
	case event.Has(fsnotify.Write):
		eType = core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		eType = core.EventDelete
	default:
		return
	}

	w.send(ctx, core.Event{Type: eType, ID: idFromPath(rel), Timestamp: time.Now().Unix()}, event.Name)
}

// send delivers e once the burst settles. Files whose content is exactly
// what Export last wrote are dropped at that point, after the index caught up.
func (w *watchWorker) send(ctx context.Context, e core.Event, path string) {
	w.debouncer.add(e, func(e core.Event) {
		defer func() {
			// the channel may already be closed during shutdown
			_ = recover()
		}()
		if e.Type != core.EventDelete && w.vault.cache.Known(e.ID, fileHash(path)) {
			w.vault.config.Logger.Debug("ignoring own write", "id", e.ID)
			return
		}
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
}
