package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestNewFanoutHandlerCollapses(t *testing.T) {
	if _, ok := newFanoutHandler(nil, nil).(NoopHandler); !ok {
		t.Error("expected NoopHandler for all nil handlers")
	}

	inner := slog.NewJSONHandler(&bytes.Buffer{}, nil)
	if h := newFanoutHandler(nil, inner, nil); h != slog.Handler(inner) {
		t.Error("expected single non-nil handler to be returned unwrapped")
	}
}

func TestFanoutHandlerEnabled(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h := newFanoutHandler(
		slog.NewJSONHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)

	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected fanout to be enabled for info")
	}
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected fanout to be disabled for debug")
	}
}

func TestFanoutHandlerRespectsLevels(t *testing.T) {
	var fileBuf, consoleBuf bytes.Buffer
	h := newFanoutHandler(
		slog.NewJSONHandler(&fileBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&consoleBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	logger := slog.New(h)

	logger.Debug("debug only")
	if fileBuf.Len() == 0 {
		t.Error("debug handler should receive debug messages")
	}
	if consoleBuf.Len() != 0 {
		t.Error("info handler should not receive debug messages")
	}

	logger.Info("both", slog.String("attr", "value"))
	if !bytes.Contains(fileBuf.Bytes(), []byte(`"attr"`)) || !bytes.Contains(consoleBuf.Bytes(), []byte(`"attr"`)) {
		t.Error("expected attr in both outputs")
	}
}

func TestFanoutHandlerWithAttrsAndGroup(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h := newFanoutHandler(slog.NewJSONHandler(&buf1, nil), slog.NewJSONHandler(&buf2, nil))

	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String("key", "value")}).WithGroup("clip"))
	logger.Info("test", slog.String("field", "value"))

	for i, buf := range []*bytes.Buffer{&buf1, &buf2} {
		if !bytes.Contains(buf.Bytes(), []byte(`"key"`)) {
			t.Errorf("expected key attribute in buf%d", i+1)
		}
		if !bytes.Contains(buf.Bytes(), []byte(`"clip"`)) {
			t.Errorf("expected group in buf%d", i+1)
		}
	}
}
