// Package normalize rewrites the camera's GPS time and date strings into the
// shapes XMP consumers expect.
package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultDate is the date part GPSTime writes. The source field carries a
	// time of day only, so the date is a placeholder, not the recording date.
	DefaultDate = "1900-01-01"

	// Source layouts take one or two digits per field; targets always pad.
	sourceTimeLayout = "15:4:5"
	sourceDateLayout = "2006:1:2"
	targetTimeLayout = "15:04:05"
	targetDateLayout = "2006-01-02"

	maxFractionDigits = 6
)

// FormatError reports a non-empty value that does not match its source layout.
type FormatError struct {
	Field  string
	Value  string
	Layout string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("%s %q does not match %s", e.Field, e.Value, e.Layout)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// GPSTime converts "HH:MM:SS.ffffff" into "1900-01-01THH:MM:SS.ffffff".
// Clock fields may be a single digit and one to six fraction digits are
// accepted; the output always pads to two and six.
func GPSTime(value string) (string, error) {
	fail := func(err error) (string, error) {
		return "", &FormatError{Field: "GPS time stamp", Value: value, Layout: "HH:MM:SS.ffffff", Err: err}
	}

	clock, fraction, ok := strings.Cut(value, ".")
	if !ok {
		return fail(errors.New("missing fractional seconds"))
	}
	if fraction == "" || len(fraction) > maxFractionDigits || !allDigits(fraction) {
		return fail(fmt.Errorf("fractional seconds must be 1-%d digits", maxFractionDigits))
	}
	parsed, err := time.Parse(sourceTimeLayout, clock)
	if err != nil {
		return fail(err)
	}
	fraction += strings.Repeat("0", maxFractionDigits-len(fraction))
	return DefaultDate + "T" + parsed.Format(targetTimeLayout) + "." + fraction, nil
}

// GPSDate converts "YYYY:MM:DD" into "YYYY-MM-DD". Month and day may be a
// single digit.
func GPSDate(value string) (string, error) {
	parsed, err := time.Parse(sourceDateLayout, value)
	if err != nil {
		return "", &FormatError{Field: "GPS date stamp", Value: value, Layout: "YYYY:MM:DD", Err: err}
	}
	return parsed.Format(targetDateLayout), nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
