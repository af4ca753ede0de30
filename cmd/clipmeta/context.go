package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"clipmeta/internal/config"
	"clipmeta/internal/history"
	"clipmeta/internal/logging"
	"clipmeta/internal/sidecar"
	"clipmeta/internal/xmp"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// runSession holds what one conversion run owns: the lock, the run logger,
// and the optional history ledger.
type runSession struct {
	cfg     *config.Config
	runID   string
	logger  *slog.Logger
	logPath string
	lock    *flock.Flock
	store   *history.Store
}

// startRun takes the run lock and sets up logging and history. Callers must
// Close the session.
func (c *commandContext) startRun(cmd *cobra.Command) (*runSession, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another clipmeta run is already in progress (lock %s)", cfg.LockPath())
	}

	runID := uuid.NewString()
	logger, logPath, err := logging.NewFromConfig(cfg, runID, cmd.ErrOrStderr())
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logging.PruneRunLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, logPath)

	session := &runSession{
		cfg:     cfg,
		runID:   runID,
		logger:  logger,
		logPath: logPath,
		lock:    lock,
	}

	store, err := history.Open(cfg)
	switch {
	case err == nil:
		session.store = store
	case errors.Is(err, history.ErrDisabled):
	default:
		logging.WarnWithContext(logger, "history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String("path", cfg.History.Path),
			logging.String(logging.FieldErrorHint, "check permissions on the history database"),
			logging.String(logging.FieldImpact, "conversions in this run are not recorded"),
		)
	}
	return session, nil
}

// converter builds a sidecar converter reporting to out.
func (s *runSession) converter(out io.Writer) (*sidecar.Converter, error) {
	shape, err := xmp.ParseShape(s.cfg.Output.Shape)
	if err != nil {
		return nil, err
	}
	opts := sidecar.Options{
		Pattern:      s.cfg.Scan.Pattern,
		Marker:       s.cfg.Scan.Marker,
		Suffix:       s.cfg.Scan.OutputSuffix,
		Shape:        shape,
		SkipExisting: s.cfg.Output.SkipExisting,
		FileMode:     s.cfg.SidecarFileMode(),
	}
	var recorder sidecar.Recorder
	if s.store != nil {
		recorder = history.Recorder{Store: s.store, RunID: s.runID}
	}
	return sidecar.NewConverter(opts, s.logger, sidecar.NewConsoleReporter(out, shouldColorize(out)), recorder)
}

func (s *runSession) Close() {
	if s == nil {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("close history failed", logging.Error(err))
		}
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("release run lock failed", logging.Error(err))
		}
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
