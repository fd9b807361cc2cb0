package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/scribe/internal/fsutil"
	"github.com/aretw0/scribe/pkg/core"
)

// DebounceInterval is how long the watcher waits for a burst of writes to a
// record file to settle before emitting one event.
const DebounceInterval = 50 * time.Millisecond

// Watch reports changes to record files made outside this process.
// An empty pattern uses the repository pattern. The returned channel is
// closed once ctx is cancelled and the watcher has shut down.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = r.config.Pattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	events := make(chan core.Event)
	w := newWatchWorker(r, pattern, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.watchWorker = w
	r.mu.Unlock()
	return events, nil
}

type watchWorker struct {
	*worker.BaseWorker
	repo      *Repository
	pattern   string
	events    chan core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

var _ worker.Worker = (*watchWorker)(nil)

func newWatchWorker(repo *Repository, pattern string, events chan core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("fs-watcher"),
		repo:       repo,
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
	if err := watcher.Add(w.repo.Path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.repo.Path, err)
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(DebounceInterval)
	w.repo.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	if err := w.StartFunc(runCtx, w.run); err != nil {
		cancel()
		_ = watcher.Close()
		w.repo.setWatcherActive(false)
		return err
	}
	return nil
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

// run owns the events channel: it is closed after the loop ends and every
// debounced send has finished.
func (w *watchWorker) run(ctx context.Context) (err error) {
	defer close(w.events)
	defer func() {
		// unblocks pending sends before events is closed
		w.cancel()
		w.debouncer.stopAndWait(5 * time.Second)
	}()
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)
			if w.repo.config.Logger.Enabled(ctx, slog.LevelDebug) {
				w.repo.config.Logger.Error("watcher panic", "error", panicErr, "stack", string(debug.Stack()))
			} else {
				w.repo.config.Logger.Error("watcher panic", "error", panicErr)
			}
			err = panicErr
		}
	}()
	defer w.repo.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.mainEventLoop(ctx)
	if err != nil {
		w.repo.reportWatchError(err)
	}
	return err
}

func (w *watchWorker) mainEventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			e, ok := w.repo.toEvent(event, w.pattern)
			if !ok {
				continue
			}
			w.debouncer.add(e, func(e core.Event) {
				select {
				case w.events <- e:
				case <-ctx.Done():
				}
			})

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.repo.reportWatchError(wErr)
		}
	}
}

// toEvent filters and maps a raw fsnotify event.
func (r *Repository) toEvent(event fsnotify.Event, pattern string) (core.Event, bool) {
	base := filepath.Base(event.Name)
	if fsutil.IsTempFile(base) || !r.matches(pattern, base) {
		return core.Event{}, false
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
		return core.Event{}, false
	}

	name, ok := NameFromFile(base, filepath.Ext(base))
	if !ok {
		r.config.Logger.Debug("ignoring file with undecodable name", "path", event.Name)
		return core.Event{}, false
	}

	r.config.Logger.Debug("event received", "type", eType, "name", name)
	return core.Event{Type: eType, ID: name, Timestamp: time.Now().Unix()}, true
}

func (r *Repository) reportWatchError(err error) {
	r.config.Logger.Error("watch error", "error", err)
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
	}
}
