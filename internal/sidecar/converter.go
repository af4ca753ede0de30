package sidecar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"clipmeta/internal/fileutil"
	"clipmeta/internal/logging"
	"clipmeta/internal/mapping"
	"clipmeta/internal/nrtmeta"
	"clipmeta/internal/xmp"
)

// Status is the outcome of one unit.
type Status string

const (
	StatusWritten Status = "written"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result describes the conversion of one unit.
type Result struct {
	Unit
	Status     Status
	Err        error
	Properties int
	// InputSHA256 and InputSize are filled when a Recorder is attached.
	InputSHA256 string
	InputSize   int64
	Started     time.Time
	Duration    time.Duration
}

// MetadataError reports whether the failure came from the XMP property bag
// rather than from reading, parsing, or normalizing the input.
func (r Result) MetadataError() bool {
	return r.Err != nil && errors.Is(r.Err, xmp.ErrMetadata)
}

// Reporter receives each result as soon as the unit finishes.
type Reporter interface {
	Report(Result)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Result)

func (f ReporterFunc) Report(r Result) { f(r) }

// Recorder persists results. Record failures are logged and never change the
// outcome of a conversion.
type Recorder interface {
	Record(ctx context.Context, r Result) error
}

// Summary aggregates the results of a batch.
type Summary struct {
	Dir      string
	Results  []Result
	Written  int
	Failed   int
	Skipped  int
	Duration time.Duration
}

// Add counts r.
func (s *Summary) Add(r Result) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusWritten:
		s.Written++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	}
}

// Total returns the number of units processed.
func (s Summary) Total() int { return len(s.Results) }

// Converter turns clip metadata files into sidecars. It is not safe for
// concurrent use; units are processed sequentially.
type Converter struct {
	opts     Options
	logger   *slog.Logger
	reporter Reporter
	recorder Recorder
}

// NewConverter validates opts and returns a converter. reporter and recorder
// may be nil.
func NewConverter(opts Options, logger *slog.Logger, reporter Reporter, recorder Recorder) (*Converter, error) {
	opts = opts.withDefaults()
	if !validPattern(opts.Pattern) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, opts.Pattern)
	}
	if _, err := xmp.ParseShape(string(opts.Shape)); err != nil {
		return nil, err
	}
	return &Converter{
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "sidecar"),
		reporter: reporter,
		recorder: recorder,
	}, nil
}

// Options returns the effective options.
func (c *Converter) Options() Options { return c.opts }

// Run converts every clip in dir. Per-file failures are reported and counted;
// the returned error is non-nil only when dir cannot be listed or ctx is
// cancelled, in which case the summary covers the files processed so far.
func (c *Converter) Run(ctx context.Context, dir string) (Summary, error) {
	started := time.Now()
	summary := Summary{Dir: dir}

	units, err := Scan(dir, c.opts)
	if err != nil {
		return summary, err
	}
	c.logger.Info("clip scan complete",
		logging.String(logging.FieldDir, dir),
		logging.Int("clips", len(units)),
		logging.String(logging.FieldEventType, "scan_complete"),
	)

	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(started)
			return summary, err
		}
		summary.Add(c.ConvertFile(ctx, unit))
	}
	summary.Duration = time.Since(started)

	c.logger.Info("clip conversion finished",
		logging.String(logging.FieldDir, dir),
		logging.Int("written", summary.Written),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("elapsed", summary.Duration),
		logging.String(logging.FieldEventType, "batch_complete"),
	)
	return summary, nil
}

// ConvertPath converts a single file if its name matches the clip pattern and
// it is a regular file. The boolean is false when the file was ignored.
func (c *Converter) ConvertPath(ctx context.Context, path string) (Result, bool) {
	if !Matches(c.opts.Pattern, path) {
		return Result{}, false
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return Result{}, false
	}
	unit := Unit{Input: path, Output: OutputPath(path, c.opts.Marker, c.opts.Suffix)}
	return c.ConvertFile(ctx, unit), true
}

// ConvertFile converts one unit, reports the result, and records it.
func (c *Converter) ConvertFile(ctx context.Context, unit Unit) Result {
	ctx = logging.WithInput(ctx, unit.Input)
	logger := logging.WithContext(ctx, c.logger)

	result := Result{Unit: unit, Started: time.Now()}
	switch {
	case c.opts.SkipExisting && exists(unit.Output):
		result.Status = StatusSkipped
		logger.Info("sidecar exists; skipped",
			logging.String(logging.FieldOutput, unit.Output),
			logging.String(logging.FieldEventType, "sidecar_skipped"),
		)
	default:
		count, err := c.convert(unit)
		result.Properties = count
		if err != nil {
			result.Status = StatusFailed
			result.Err = err
			logging.WarnWithContext(logger, "clip conversion failed", "conversion_failed",
				logging.Error(err),
				logging.Bool("metadata_error", errors.Is(err, xmp.ErrMetadata)),
				logging.String(logging.FieldErrorHint, "check the clip XML for malformed values"),
				logging.String(logging.FieldImpact, "sidecar not written; remaining clips continue"),
			)
		} else {
			result.Status = StatusWritten
			logger.Info("sidecar written",
				logging.String(logging.FieldOutput, unit.Output),
				logging.Int("properties", count),
				logging.String(logging.FieldEventType, "sidecar_written"),
			)
		}
	}
	result.Duration = time.Since(result.Started)

	if c.reporter != nil {
		c.reporter.Report(result)
	}
	if c.recorder != nil {
		if sum, size, err := fileutil.HashFile(unit.Input); err == nil {
			result.InputSHA256, result.InputSize = sum, size
		}
		if err := c.recorder.Record(ctx, result); err != nil {
			logging.WarnWithContext(logger, "history record failed", "history_record_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "conversion is not listed in history"),
			)
		}
	}
	return result
}

// convert runs parse, map, render, and write. The input handle is closed
// before the output is written.
func (c *Converter) convert(unit Unit) (int, error) {
	doc, err := nrtmeta.ParseFile(unit.Input)
	if err != nil {
		return 0, err
	}
	packet, err := mapping.Map(doc)
	if err != nil {
		return 0, err
	}
	data, err := packet.Render(c.opts.Shape)
	if err != nil {
		return packet.Len(), err
	}
	if err := fileutil.WriteFileAtomic(unit.Output, data, c.opts.FileMode); err != nil {
		return packet.Len(), fmt.Errorf("write sidecar: %w", err)
	}
	return packet.Len(), nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
