package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// RunLogStarted reads the start time that RunLogPath encodes in a run log
// name. ok is false for names it did not produce.
func RunLogStarted(name string) (started time.Time, ok bool) {
	stamp, found := strings.CutPrefix(filepath.Base(name), runLogPrefix)
	if !found || len(stamp) < len(runLogTimeLayout) {
		return time.Time{}, false
	}
	started, err := time.Parse(runLogTimeLayout, stamp[:len(runLogTimeLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return started, true
}

// PruneRunLogs removes run logs in logDir that started more than
// retentionDays ago and returns how many were removed. Age comes from the
// timestamp in the file name, falling back to the modification time for
// names without one. keep (normally the current run's log) is never removed,
// and a retentionDays value of 0 disables pruning.
func PruneRunLogs(logger *slog.Logger, logDir string, retentionDays int, keep string) int {
	dir := strings.TrimSpace(logDir)
	if retentionDays <= 0 || dir == "" {
		return 0
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	if abs, err := filepath.Abs(keep); err == nil && strings.TrimSpace(keep) != "" {
		keep = abs
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			continue
		}
		if matched, err := doublestar.Match(RunLogPattern, name); err != nil || !matched {
			continue
		}
		fullPath := filepath.Join(dir, name)
		if abs, err := filepath.Abs(fullPath); err == nil {
			fullPath = abs
		}
		if fullPath == keep {
			continue
		}

		started, ok := RunLogStarted(name)
		if !ok {
			info, err := entry.Info()
			if err != nil {
				continue
			}
			started = info.ModTime()
		}
		if !started.Before(cutoff) {
			continue
		}

		if err := os.Remove(fullPath); err != nil {
			WarnWithContext(logger, "log retention remove failed; file remains", "log_retention_failed",
				String("path", fullPath),
				Error(err),
				String(FieldErrorHint, "check file permissions and log_dir ownership"),
				String(FieldImpact, "old run log remains on disk"),
			)
			continue
		}
		removed++
		if logger != nil {
			logger.Debug("run log pruned",
				String("path", fullPath),
				String(FieldEventType, "log_pruned"),
			)
		}
	}
	return removed
}
