package sidecar_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"clipmeta/internal/sidecar"
	"clipmeta/internal/xmp"
)

func TestReportLine(t *testing.T) {
	unit := sidecar.Unit{Input: "/c/C0001M01.XML", Output: "/c/C0001.MP4.xmp"}
	tests := []struct {
		name   string
		result sidecar.Result
		want   string
	}{
		{name: "written", result: sidecar.Result{Unit: unit, Status: sidecar.StatusWritten}, want: "XMP metadata written to /c/C0001.MP4.xmp"},
		{name: "skipped", result: sidecar.Result{Unit: unit, Status: sidecar.StatusSkipped}, want: "Skipped existing /c/C0001.MP4.xmp"},
		{
			name:   "metadata",
			result: sidecar.Result{Unit: unit, Status: sidecar.StatusFailed, Err: fmt.Errorf("map timecode: %w: invalid property name", xmp.ErrMetadata)},
			want:   "Error: map timecode: xmp metadata error: invalid property name",
		},
		{
			name:   "other",
			result: sidecar.Result{Unit: unit, Status: sidecar.StatusFailed, Err: errors.New("parse clip metadata: EOF")},
			want:   "Unexpected error: parse clip metadata: EOF",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sidecar.ReportLine(tt.result); got != tt.want {
				t.Fatalf("ReportLine = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConsoleReporterColor(t *testing.T) {
	res := sidecar.Result{Unit: sidecar.Unit{Output: "out.xmp"}, Status: sidecar.StatusWritten}

	var plain bytes.Buffer
	sidecar.NewConsoleReporter(&plain, false).Report(res)
	if plain.String() != "XMP metadata written to out.xmp\n" {
		t.Fatalf("plain output = %q", plain.String())
	}

	var colored bytes.Buffer
	sidecar.NewConsoleReporter(&colored, true).Report(res)
	if colored.String() != "\033[32mXMP metadata written to out.xmp\033[0m\n" {
		t.Fatalf("colored output = %q", colored.String())
	}
}
