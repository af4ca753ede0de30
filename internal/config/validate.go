package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"clipmeta/internal/xmp"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScan() error {
	if !doublestar.ValidatePattern(c.Scan.Pattern) {
		return fmt.Errorf("scan.pattern %q is not a valid glob", c.Scan.Pattern)
	}
	if strings.ContainsAny(c.Scan.Pattern, `/\`) {
		return errors.New("scan.pattern must match a file name, not a path")
	}
	if strings.ContainsAny(c.Scan.OutputSuffix, `/\`) {
		return errors.New("scan.output_suffix must not contain path separators")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if _, err := xmp.ParseShape(c.Output.Shape); err != nil {
		return fmt.Errorf("output.shape: %w", err)
	}
	if c.Output.FileMode < 0 || c.Output.FileMode > 0o777 {
		return fmt.Errorf("output.file_mode %#o must be a permission mode between 0 and 0o777", c.Output.FileMode)
	}
	if c.Output.FileMode&0o600 != 0o600 {
		return errors.New("output.file_mode must keep the owner read and write bits")
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.DebounceMS < 0 {
		return errors.New("watch.debounce_ms must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn, or error", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be zero or positive")
	}
	return nil
}
