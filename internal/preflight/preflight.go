package preflight

import (
	"path/filepath"
	"strings"

	"clipmeta/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// InputCheckName names the input directory check in RunAll results.
const InputCheckName = "Input directory"

// RunAll executes the checks for converting clips in inputDir with cfg.
// The input directory is always checked first.
func RunAll(cfg *config.Config, inputDir string) []Result {
	results := []Result{CheckInputDirectory(InputCheckName, inputDir)}
	if cfg == nil {
		return results
	}

	results = append(results, CheckCreatable("State directory", cfg.Paths.StateDir))
	if strings.TrimSpace(cfg.Paths.LogDir) != "" {
		results = append(results, CheckCreatable("Log directory", cfg.Paths.LogDir))
	}
	if cfg.History.Enabled {
		results = append(results, CheckCreatable("History directory", filepath.Dir(cfg.History.Path)))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
