package watcher

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"dynastysync/internal/logging"
)

// DefaultDebounce coalesces the writes a single game save produces.
const DefaultDebounce = 2 * time.Second

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the quiet window before the callback fires.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger attaches a logger under the "watcher" component.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logging.NewComponentLogger(logger, "watcher")
	}
}

// Watcher watches a single file path.
type Watcher struct {
	debounce time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	active *watch
}

// watch is one live fsnotify handle and its event loop.
type watch struct {
	path     string
	onModify func(string)
	fs       *fsnotify.Watcher
	done     chan struct{}
	wg       sync.WaitGroup

	timerMu sync.Mutex
	timer   *time.Timer
	stopped bool
}

// New returns an idle watcher.
func New(opts ...Option) *Watcher {
	w := &Watcher{
		debounce: DefaultDebounce,
		logger:   logging.NewComponentLogger(nil, "watcher"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start watches path and calls onModify(path) after each debounced burst of
// writes. Any previous watch is stopped first. It reports whether the new
// watch is live.
func (w *Watcher) Start(path string, onModify func(string)) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopLocked()

	if path == "" || onModify == nil {
		w.logger.Warn("watch not started; path and callback are required",
			logging.String(logging.FieldEventType, "watch_start_failed"),
		)
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.startFailed(path, err)
		return false
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		w.startFailed(abs, err)
		return false
	}
	// Watch the directory so editors and games that replace the file by
	// rename keep producing events.
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		_ = fs.Close()
		w.startFailed(abs, err)
		return false
	}

	wt := &watch{
		path:     abs,
		onModify: onModify,
		fs:       fs,
		done:     make(chan struct{}),
	}
	wt.wg.Add(1)
	go w.processEvents(wt)
	w.active = wt

	w.logger.Info("watching save file",
		logging.String(logging.FieldSavePath, abs),
		logging.Duration("debounce", w.debounce),
		logging.String(logging.FieldEventType, "watch_started"),
	)
	return true
}

// Stop ends the active watch, if any. Pending debounced callbacks are dropped.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
}

// IsWatching reports whether a watch is live.
func (w *Watcher) IsWatching() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active != nil
}

// WatchedPath returns the absolute path being watched, or "" when idle.
func (w *Watcher) WatchedPath() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active == nil {
		return ""
	}
	return w.active.path
}

func (w *Watcher) stopLocked() {
	wt := w.active
	if wt == nil {
		return
	}
	w.active = nil

	wt.timerMu.Lock()
	wt.stopped = true
	if wt.timer != nil {
		wt.timer.Stop()
		wt.timer = nil
	}
	wt.timerMu.Unlock()

	close(wt.done)
	if err := wt.fs.Close(); err != nil {
		w.logger.Warn("closing file watch failed",
			logging.String(logging.FieldSavePath, wt.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "watch_stop_failed"),
		)
	}
	wt.wg.Wait()

	w.logger.Debug("save file watch stopped",
		logging.String(logging.FieldSavePath, wt.path),
		logging.String(logging.FieldEventType, "watch_stopped"),
	)
}

func (w *Watcher) startFailed(path string, err error) {
	w.logger.Warn("save file watch could not start",
		logging.String(logging.FieldSavePath, path),
		logging.Error(err),
		logging.String(logging.FieldEventType, "watch_start_failed"),
		logging.String(logging.FieldErrorHint, "check the save directory exists and is readable"),
		logging.String(logging.FieldImpact, "save changes will not trigger syncs"),
	)
}

func (w *Watcher) processEvents(wt *watch) {
	defer wt.wg.Done()

	for {
		select {
		case <-wt.done:
			return

		case event, ok := <-wt.fs.Events:
			if !ok {
				return
			}
			if !relevant(event, wt.path) {
				continue
			}
			w.schedule(wt)

		case err, ok := <-wt.fs.Errors:
			if !ok {
				return
			}
			w.logger.Debug("file watch error ignored",
				logging.String(logging.FieldSavePath, wt.path),
				logging.Error(err),
			)
		}
	}
}

func relevant(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// schedule restarts the debounce window for wt.
func (w *Watcher) schedule(wt *watch) {
	wt.timerMu.Lock()
	defer wt.timerMu.Unlock()
	if wt.stopped {
		return
	}
	if wt.timer != nil {
		wt.timer.Stop()
	}
	wt.timer = time.AfterFunc(w.debounce, func() { w.fire(wt) })
}

func (w *Watcher) fire(wt *watch) {
	wt.timerMu.Lock()
	stopped := wt.stopped
	wt.timer = nil
	wt.timerMu.Unlock()
	if stopped {
		return
	}

	w.mu.Lock()
	current := w.active == wt
	w.mu.Unlock()
	if !current {
		return
	}

	w.logger.Debug("save file modified",
		logging.String(logging.FieldSavePath, wt.path),
		logging.String(logging.FieldEventType, "watch_modified"),
	)
	wt.onModify(wt.path)
}
