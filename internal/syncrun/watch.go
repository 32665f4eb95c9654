package syncrun

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"dynastysync/internal/config"
	"dynastysync/internal/daemon"
	"dynastysync/internal/logging"
	"dynastysync/internal/preflight"
	"dynastysync/internal/syncflow"
)

// WatchOptions configures the foreground watch daemon.
type WatchOptions struct {
	Target      Target
	SavePath    string
	LogLevel    string
	Development bool
	// OnChange, when set, receives every orchestrator snapshot.
	OnChange func(syncflow.Snapshot)
}

// Watch runs the watch daemon until cmdCtx is cancelled or SIGINT/SIGTERM
// arrives.
func Watch(cmdCtx context.Context, cfg *config.Config, opts WatchOptions) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sessionID := uuid.NewString()
	runID := time.Now().UTC().Format("20060102T150405.000Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("dynastysync-watch-%s.log", runID))
	level := strings.TrimSpace(opts.LogLevel)
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
		Development:      opts.Development,
		SessionID:        sessionID,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logging.PruneLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, logPath)

	if failed := preflight.Failed(preflight.RunAll(cfg, opts.SavePath)); len(failed) > 0 {
		for _, r := range failed {
			logging.ErrorWithContext(logger, "preflight check failed", "preflight_failed",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
			)
		}
		return fmt.Errorf("preflight failed: %s: %s", failed[0].Name, failed[0].Detail)
	}
	logDependencySnapshot(logger, cfg)

	rt, err := Open(signalCtx, cfg, logger, opts.Target)
	if err != nil {
		logger.Error("open sync runtime", logging.Error(err))
		return err
	}
	defer rt.Close()
	if opts.OnChange != nil {
		rt.Orchestrator.OnChange(opts.OnChange)
	}

	d, err := daemon.New(cfg, rt.Orchestrator, logger, opts.SavePath)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		logging.ErrorWithContext(logger, "daemon start failed", "daemon_start_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "stop the other watch daemon or check the save directory"),
			logging.String(logging.FieldImpact, "save changes will not be synced"),
		)
		return err
	}
	logger.Info("watching save for changes",
		logging.Int64(logging.FieldDynastyID, rt.Dynasty.ID),
		logging.Int64(logging.FieldSeasonID, rt.Season.ID),
		logging.Int("year", rt.Season.Year),
		logging.String(logging.FieldSavePath, d.SavePath()),
	)

	<-signalCtx.Done()
	logger.Info("dynastysync watch daemon shutting down")
	return nil
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	sidecarCheck := preflight.CheckSidecarBinary(cfg.Sidecar.Binary)
	logger.Info("dependency snapshot",
		logging.String(logging.FieldEventType, "dependency_snapshot"),
		logging.Bool("sidecar_available", sidecarCheck.Passed),
		logging.String("sidecar_binary", cfg.Sidecar.Binary),
		logging.String("commit_mode", cfg.Sync.CommitMode),
		logging.Int("auto_confirm_seconds", cfg.Sync.AutoConfirmSeconds),
		logging.String("database", cfg.DatabasePath()),
	)
}
