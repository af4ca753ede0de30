package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// jsonTimeLayout keeps milliseconds so per-clip records within one batch
// stay ordered when the run log is read back.
const jsonTimeLayout = "2006-01-02T15:04:05.000Z07:00"

func newJSONHandler(w io.Writer, lvl slog.Leveler, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   addSource,
		ReplaceAttr: replaceJSONAttr,
	})
}

// replaceJSONAttr renders ts in UTC, the level in lower case, the source as
// file:line, and durations (batch elapsed, watch debounce) as strings like
// "1.5ms" rather than integer nanoseconds.
func replaceJSONAttr(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Value.Kind() {
	case slog.KindDuration:
		return slog.String(attr.Key, attr.Value.Duration().Round(time.Microsecond).String())
	case slog.KindTime:
		if attr.Key == slog.TimeKey {
			return slog.String("ts", attr.Value.Time().UTC().Format(jsonTimeLayout))
		}
	}

	switch attr.Key {
	case slog.LevelKey:
		attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
			attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
		}
	}
	return attr
}
