package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gofrs/flock"

	"dynastysync/internal/config"
	"dynastysync/internal/logging"
	"dynastysync/internal/syncflow"
	"dynastysync/internal/watcher"
)

// SaveHandler receives debounced save modifications. *syncflow.Orchestrator
// satisfies it.
type SaveHandler interface {
	HandleSaveModified(ctx context.Context, filePath string) bool
	Snapshot() syncflow.Snapshot
}

// Daemon watches a save file and enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	handler  SaveHandler
	watcher  *watcher.Watcher
	savePath string

	lockPath string
	lock     *flock.Flock

	running  atomic.Bool
	triggers atomic.Int64
	ignored  atomic.Int64
	ctx      context.Context
	cancel   context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Watching     bool
	SavePath     string
	Triggers     int64
	Ignored      int64
	Sync         syncflow.Snapshot
	DatabasePath string
	LockFilePath string
}

// New constructs a daemon for savePath.
func New(cfg *config.Config, handler SaveHandler, logger *slog.Logger, savePath string) (*Daemon, error) {
	if cfg == nil || handler == nil {
		return nil, errors.New("daemon requires config and save handler")
	}
	trimmed := strings.TrimSpace(savePath)
	if trimmed == "" {
		return nil, errors.New("save path is required")
	}
	absPath, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("resolve save path: %w", err)
	}

	lockPath := cfg.WatchLockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		handler:  handler,
		watcher:  watcher.New(watcher.WithDebounce(cfg.WatchDebounce()), watcher.WithLogger(logger)),
		savePath: absPath,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and begins watching the save file.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := d.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another dynastysync watch daemon is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if !d.watcher.Start(d.savePath, d.onModify) {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start watching %s", d.savePath)
	}

	d.running.Store(true)
	d.logger.Info("dynastysync watch daemon started",
		logging.String("lock", d.lockPath),
		logging.String(logging.FieldSavePath, d.savePath),
		logging.String(logging.FieldEventType, "daemon_started"),
	)
	return nil
}

func (d *Daemon) onModify(path string) {
	ctx := d.ctx
	if ctx == nil || ctx.Err() != nil {
		return
	}
	d.triggers.Add(1)
	if !d.handler.HandleSaveModified(ctx, path) {
		d.ignored.Add(1)
	}
}

// Stop stops watching and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	d.watcher.Stop()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_unlock_failed"),
			logging.String(logging.FieldErrorHint, "remove "+d.lockPath+" if no daemon is running"),
		)
	}
	d.running.Store(false)
	d.logger.Info("dynastysync watch daemon stopped",
		logging.String(logging.FieldEventType, "daemon_stopped"),
	)
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// SavePath returns the absolute path being watched.
func (d *Daemon) SavePath() string {
	return d.savePath
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		Watching:     d.watcher.IsWatching(),
		SavePath:     d.savePath,
		Triggers:     d.triggers.Load(),
		Ignored:      d.ignored.Load(),
		Sync:         d.handler.Snapshot(),
		DatabasePath: d.cfg.DatabasePath(),
		LockFilePath: d.lockPath,
	}
}
