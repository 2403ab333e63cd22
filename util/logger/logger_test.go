package logger

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestHandleWritesTimestampLevelAndMessage(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(h)
	logger.Info("admission stalled")

	got := buf.String()
	if !strings.Contains(got, "INFO:") {
		t.Errorf("expected level prefix in output, got: %q", got)
	}
	if !strings.Contains(got, "admission stalled") {
		t.Errorf("expected message in output, got: %q", got)
	}
}

func TestSetDebugMirrorsToStderrRegardlessOfLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	h.SetDebug(true)
	if !h.debug {
		t.Errorf("expected debug flag to be set")
	}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	saved := os.Stderr
	os.Stderr = w
	slog.New(h).Debug("debug record")
	os.Stderr = saved
	w.Close()
	got, _ := io.ReadAll(r)
	if !strings.Contains(string(got), "debug record") {
		t.Errorf("expected debug-level record mirrored to stderr, got: %q", got)
	}
}
