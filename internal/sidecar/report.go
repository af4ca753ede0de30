package sidecar

import (
	"fmt"
	"io"
	"sync"
)

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
)

// ReportLine renders the per-file console message for r.
func ReportLine(r Result) string {
	switch r.Status {
	case StatusWritten:
		return fmt.Sprintf("XMP metadata written to %s", r.Output)
	case StatusSkipped:
		return fmt.Sprintf("Skipped existing %s", r.Output)
	}
	if r.MetadataError() {
		return fmt.Sprintf("Error: %v", r.Err)
	}
	return fmt.Sprintf("Unexpected error: %v", r.Err)
}

// ConsoleReporter prints one line per result.
type ConsoleReporter struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

// NewConsoleReporter returns a reporter writing to out. color wraps each line
// in an ANSI color for its status.
func NewConsoleReporter(out io.Writer, color bool) *ConsoleReporter {
	return &ConsoleReporter{out: out, color: color}
}

// Report implements Reporter.
func (c *ConsoleReporter) Report(r Result) {
	line := ReportLine(r)
	if c.color {
		line = statusColor(r.Status) + line + ansiReset
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, line)
}

func statusColor(status Status) string {
	switch status {
	case StatusWritten:
		return ansiGreen
	case StatusSkipped:
		return ansiYellow
	default:
		return ansiRed
	}
}
