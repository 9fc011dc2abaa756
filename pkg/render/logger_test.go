package render

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger should not be enabled for %v", level)
		}
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	captureLog(t, &buf, slog.LevelDebug)

	Logger().Info("test message", "key", "value")
	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("expected log output to contain 'test message', got: %s", buf.String())
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	var buf bytes.Buffer
	captureLog(t, &buf, slog.LevelDebug)

	SetLogger(nil)
	Logger().Warn("dropped")
	if buf.Len() != 0 {
		t.Errorf("nil logger should be silent, got: %s", buf.String())
	}
}

// captureLog routes render logging into buf for the duration of the test.
func captureLog(t *testing.T, buf *bytes.Buffer, level slog.Level) {
	t.Helper()
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	SetLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level})))
}
