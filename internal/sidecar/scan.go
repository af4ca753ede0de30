// Package sidecar drives the conversion of clip metadata files into XMP
// sidecars.
//
// A directory scan selects the immediate regular files whose name matches the
// clip pattern (C*M01.XML by default). Each match becomes a Unit whose output
// path is derived from the input name. The Converter processes units one at a
// time; a failure on one file is reported and the scan moves on.
package sidecar

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"clipmeta/internal/xmp"
)

const (
	DefaultPattern = "C*M01.XML"
	DefaultMarker  = "M01"
	DefaultSuffix  = ".MP4.xmp"
)

// ErrInvalidPattern reports a clip pattern doublestar cannot parse.
var ErrInvalidPattern = errors.New("invalid clip pattern")

// Options controls scanning and writing.
type Options struct {
	// Pattern selects clip metadata files by base name.
	Pattern string
	// Marker is removed from the input base name to form the sidecar name.
	Marker string
	// Suffix is appended to the derived base name.
	Suffix       string
	Shape        xmp.Shape
	SkipExisting bool
	FileMode     os.FileMode
}

// DefaultOptions returns the camera's naming convention with bare sidecars.
func DefaultOptions() Options {
	return Options{
		Pattern:  DefaultPattern,
		Marker:   DefaultMarker,
		Suffix:   DefaultSuffix,
		Shape:    xmp.ShapeBare,
		FileMode: 0o644,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if strings.TrimSpace(o.Pattern) == "" {
		o.Pattern = def.Pattern
	}
	if o.Suffix == "" {
		o.Suffix = def.Suffix
	}
	if o.Shape == "" {
		o.Shape = def.Shape
	}
	if o.FileMode == 0 {
		o.FileMode = def.FileMode
	}
	return o
}

// Unit is one clip metadata file and the sidecar it produces.
type Unit struct {
	Input  string
	Output string
}

// Scan lists the immediate entries of dir whose name matches opts.Pattern and
// that are regular files, in directory listing order. Non-matching entries
// are never opened.
func Scan(dir string, opts Options) ([]Unit, error) {
	opts = opts.withDefaults()
	if !validPattern(opts.Pattern) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, opts.Pattern)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read clip directory: %w", err)
	}

	var units []Unit
	for _, entry := range entries {
		if !Matches(opts.Pattern, entry.Name()) {
			continue
		}
		input := filepath.Join(dir, entry.Name())
		if !isRegular(input, entry) {
			continue
		}
		units = append(units, Unit{
			Input:  input,
			Output: OutputPath(input, opts.Marker, opts.Suffix),
		})
	}
	return units, nil
}

// Matches reports whether the base name of path matches pattern.
func Matches(pattern, path string) bool {
	ok, err := doublestar.Match(pattern, filepath.Base(path))
	return err == nil && ok
}

// OutputPath derives the sidecar path for input: the extension is dropped,
// every occurrence of marker is removed from the base name, and suffix is
// appended. The sidecar lives in the input's directory.
func OutputPath(input, marker, suffix string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if marker != "" {
		stem = strings.ReplaceAll(stem, marker, "")
	}
	return filepath.Join(filepath.Dir(input), stem+suffix)
}

func validPattern(pattern string) bool {
	return doublestar.ValidatePattern(pattern) && !strings.ContainsAny(pattern, `/\`)
}

func isRegular(path string, entry os.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
