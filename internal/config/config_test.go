package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"clipmeta/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CLIPMETA_LOG_LEVEL", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "clipmeta", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "clipmeta")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Paths.LogDir != filepath.Join(wantState, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.History.Path != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.History.Path)
	}
	if cfg.LockPath() != filepath.Join(wantState, "clipmeta.lock") {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
	if cfg.Scan.Pattern != "C*M01.XML" || cfg.Scan.Marker != "M01" || cfg.Scan.OutputSuffix != ".MP4.xmp" {
		t.Fatalf("unexpected scan defaults: %+v", cfg.Scan)
	}
	if cfg.Output.Shape != "bare" || cfg.Output.SkipExisting {
		t.Fatalf("unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.SidecarFileMode() != 0o644 {
		t.Fatalf("unexpected file mode %o", cfg.SidecarFileMode())
	}
	if cfg.WatchDebounce() != 500*time.Millisecond {
		t.Fatalf("unexpected debounce %s", cfg.WatchDebounce())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "clipmeta.toml")

	type payload struct {
		Paths struct {
			StateDir string `toml:"state_dir"`
		} `toml:"paths"`
		Output struct {
			Shape        string `toml:"shape"`
			SkipExisting bool   `toml:"skip_existing"`
		} `toml:"output"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.StateDir = filepath.Join(tempDir, "state")
	custom.Output.Shape = "Strip"
	custom.Output.SkipExisting = true
	custom.Logging.Format = "JSON"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Output.Shape != "strip" || !cfg.Output.SkipExisting {
		t.Fatalf("unexpected output section: %+v", cfg.Output)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized log format, got %q", cfg.Logging.Format)
	}
	if cfg.History.Path != filepath.Join(tempDir, "state", "history.db") {
		t.Fatalf("history path should follow state dir, got %q", cfg.History.Path)
	}
	if cfg.Scan.Pattern != "C*M01.XML" {
		t.Fatalf("unset keys should keep defaults, got pattern %q", cfg.Scan.Pattern)
	}
}

func TestLoadMissingExplicitPathUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	missing := filepath.Join(t.TempDir(), "absent.toml")

	cfg, resolved, exists, err := config.Load(missing)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists || resolved != missing {
		t.Fatalf("got resolved=%q exists=%v", resolved, exists)
	}
	if cfg.Output.Shape != "bare" {
		t.Fatalf("expected defaults, got %+v", cfg.Output)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "shape", content: "[output]\nshape = \"xml\"\n", want: "output.shape"},
		{name: "pattern", content: "[scan]\npattern = \"C[M01.XML\"\n", want: "scan.pattern"},
		{name: "pattern with path", content: "[scan]\npattern = \"clips/C*M01.XML\"\n", want: "scan.pattern"},
		{name: "suffix", content: "[scan]\noutput_suffix = \"/x.xmp\"\n", want: "scan.output_suffix"},
		{name: "mode", content: "[output]\nfile_mode = 0o1777\n", want: "output.file_mode"},
		{name: "mode unreadable", content: "[output]\nfile_mode = 0o200\n", want: "output.file_mode"},
		{name: "debounce", content: "[watch]\ndebounce_ms = -1\n", want: "watch.debounce_ms"},
		{name: "log format", content: "[logging]\nformat = \"xml\"\n", want: "logging.format"},
		{name: "log level", content: "[logging]\nlevel = \"loud\"\n", want: "logging.level"},
		{name: "retention", content: "[logging]\nretention_days = -2\n", want: "logging.retention_days"},
		{name: "unknown key", content: "[output]\ncolour = true\n", want: "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLogLevelFromEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CLIPMETA_LOG_LEVEL", "DEBUG")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected env level, got %q", cfg.Logging.Level)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CLIPMETA_LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	defaults := config.Default()
	if cfg.Scan != defaults.Scan || cfg.Watch != defaults.Watch {
		t.Fatalf("sample differs from defaults: scan=%+v watch=%+v", cfg.Scan, cfg.Watch)
	}
	if cfg.Output.FileMode != defaults.Output.FileMode || cfg.Logging.RetentionDays != defaults.Logging.RetentionDays {
		t.Fatalf("sample differs from defaults: output=%+v logging=%+v", cfg.Output, cfg.Logging)
	}
}

func TestExpandPathTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := config.ExpandPath("~/clips")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "clips") {
		t.Fatalf("ExpandPath = %q", got)
	}
	if got, _ := config.ExpandPath(""); got != "" {
		t.Fatalf("empty path should stay empty, got %q", got)
	}
}
