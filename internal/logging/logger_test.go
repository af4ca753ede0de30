package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"clipmeta/internal/config"
	"clipmeta/internal/logging"
)

func TestNewFromConfigWritesRunLog(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Format = "json"

	logger, logPath, err := logging.NewFromConfig(&cfg, "0b9f6e2c-1111-2222-3333-444455556666", nil)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if filepath.Dir(logPath) != cfg.Paths.LogDir {
		t.Fatalf("log written outside log dir: %s", logPath)
	}
	if matched, _ := filepath.Match(logging.RunLogPattern, filepath.Base(logPath)); !matched {
		t.Fatalf("log name %q does not match %q", filepath.Base(logPath), logging.RunLogPattern)
	}

	logger.Info("sidecar written", logging.String(logging.FieldInput, "C0001M01.XML"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	for _, want := range []string{`"msg":"sidecar written"`, `"run_id":"0b9f6e2c-1111-2222-3333-444455556666"`, `"input":"C0001M01.XML"`, `"level":"info"`} {
		if !strings.Contains(text, want) {
			t.Fatalf("log missing %s: %s", want, text)
		}
	}
}

func TestNewFromConfigMirrorsToConsole(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Console = true

	var console bytes.Buffer
	logger, _, err := logging.NewFromConfig(&cfg, "run", &console)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logging.NewComponentLogger(logger, "sidecar").Info("scan complete", logging.Int("written", 2))

	out := console.String()
	if !strings.Contains(out, "INFO [sidecar] - scan complete") {
		t.Fatalf("unexpected console header: %q", out)
	}
	if !strings.Contains(out, "    - written: 2") {
		t.Fatalf("expected attribute line: %q", out)
	}
	if strings.Contains(out, "run_id") {
		t.Fatalf("run_id should only appear at debug level: %q", out)
	}
}

func TestNewFromConfigConsoleDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	var console bytes.Buffer
	logger, _, err := logging.NewFromConfig(&cfg, "run", &console)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Warn("ignored")
	if console.Len() != 0 {
		t.Fatalf("console disabled but got %q", console.String())
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}, RunID: "abc"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
	if !strings.Contains(string(content), "run_id: abc") {
		t.Fatalf("expected run_id in debug logs, got %q", content)
	}
}

func TestConsoleLoggerOrdersHighlightedFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("converted",
		logging.Int("properties", 12),
		logging.String(logging.FieldOutput, "/clips/C0001.MP4.xmp"),
		logging.String(logging.FieldEventType, "sidecar_written"),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus three fields, got %q", content)
	}
	if lines[1] != "    - event_type: sidecar_written" || lines[2] != "    - output: /clips/C0001.MP4.xmp" {
		t.Fatalf("fields not in highlight order: %q", lines[1:])
	}
}

func TestJSONRecordShape(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "shape.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.WithGroup("batch").Warn("clip conversion finished",
		logging.Duration("elapsed", 1500*time.Microsecond),
		logging.Int("failed", 1),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	for _, want := range []string{`"level":"warn"`, `"batch":{"elapsed":"1.5ms","failed":1}`} {
		if !strings.Contains(text, want) {
			t.Fatalf("log missing %s: %s", want, text)
		}
	}
	ts := regexp.MustCompile(`"ts":"\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z"`)
	if !ts.MatchString(text) {
		t.Fatalf("expected millisecond UTC ts: %s", text)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsInput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ctx.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithInput(context.Background(), "/clips/C0002M01.XML")
	logging.WithContext(ctx, logger).Info("contextual log")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"input":"/clips/C0002M01.XML"`) {
		t.Fatalf("expected input field, got %s", content)
	}
}

func TestRunLogPath(t *testing.T) {
	started := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	got := logging.RunLogPath("/logs", "0123456789abcdef", started)
	if got != "/logs/clipmeta-20260304T050607Z-01234567.log" {
		t.Fatalf("RunLogPath = %q", got)
	}
	if got := logging.RunLogPath("/logs", "", started); got != "/logs/clipmeta-20260304T050607Z.log" {
		t.Fatalf("RunLogPath without id = %q", got)
	}
}
