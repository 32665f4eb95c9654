package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LogFilePattern matches every file the logger writes into the log directory.
const LogFilePattern = "dynastysync*.log"

// PruneLogs deletes log files in dir older than retentionDays, skipping the
// paths listed in keep. Zero or negative retention disables pruning. It
// returns the number of files removed.
func PruneLogs(logger *slog.Logger, dir string, retentionDays int, keep ...string) int {
	dir = strings.TrimSpace(dir)
	if retentionDays <= 0 || dir == "" {
		return 0
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	protected := make(map[string]struct{}, len(keep))
	for _, path := range keep {
		if abs, err := filepath.Abs(strings.TrimSpace(path)); err == nil {
			protected[abs] = struct{}{}
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(LogFilePattern, entry.Name()); !ok {
			continue
		}
		full := filepath.Join(dir, entry.Name())
		if abs, err := filepath.Abs(full); err == nil {
			full = abs
		}
		if _, skip := protected[full]; skip {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(full); err != nil {
			WarnWithContext(logger, "log prune failed", "log_prune_failed",
				String("path", full),
				Error(err),
				String(FieldErrorHint, "check permissions on the configured log_dir"),
				String(FieldImpact, "old log file stays on disk"),
			)
			continue
		}
		removed++
		if logger != nil {
			logger.Debug("log pruned", String("path", full), String(FieldEventType, "log_pruned"))
		}
	}
	return removed
}
