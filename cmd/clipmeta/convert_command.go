package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"clipmeta/internal/logging"
	"clipmeta/internal/preflight"
	"clipmeta/internal/sidecar"
)

func runConvert(cmd *cobra.Command, ctx *commandContext, dir string, summary bool) error {
	if err := requireInputDirectory(dir); err != nil {
		return err
	}

	session, err := ctx.startRun(cmd)
	if err != nil {
		return err
	}
	defer session.Close()

	out := cmd.OutOrStdout()
	conv, err := session.converter(out)
	if err != nil {
		return err
	}
	session.logger.Info("clip conversion starting",
		logging.String(logging.FieldDir, dir),
		logging.String("log_path", session.logPath),
		logging.String(logging.FieldEventType, "batch_started"),
	)

	result, err := conv.Run(cmd.Context(), dir)
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.ErrorWithContext(session.logger, "clip batch aborted", "batch_failed",
			logging.Error(err),
			logging.String(logging.FieldDir, dir),
			logging.String(logging.FieldErrorHint, "check that the directory is readable"),
		)
	}
	if summary {
		fmt.Fprintln(out, renderSummary(result))
	}
	return err
}

// requireInputDirectory fails when dir cannot be listed. A read-only dir is
// allowed; each clip then reports its own write failure.
func requireInputDirectory(dir string) error {
	if r := preflight.CheckInputDirectory(preflight.InputCheckName, dir); !r.Passed {
		return fmt.Errorf("input directory: %s", r.Detail)
	}
	return nil
}

func renderSummary(s sidecar.Summary) string {
	rows := make([][]string, 0, len(s.Results)+1)
	for _, r := range s.Results {
		detail := r.Output
		if r.Err != nil {
			detail = r.Err.Error()
		}
		rows = append(rows, []string{filepath.Base(r.Input), string(r.Status), strconv.Itoa(r.Properties), detail})
	}
	table := renderTable(summaryColumns, rows)
	return fmt.Sprintf("%s\nTotal %d: %d written, %d skipped, %d failed (%s)",
		table, s.Total(), s.Written, s.Skipped, s.Failed, s.Duration.Round(time.Millisecond))
}
