package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestHandleFormatsCompactLine(t *testing.T) {
	var buf bytes.Buffer
	h := NewCompactHandler(&buf, slog.LevelInfo)

	r := slog.NewRecord(time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC), slog.LevelInfo, "sync cycle finished", 0)
	r.AddAttrs(slog.Int("new_matches", 3), slog.String("player", "Smurf#EUW"))

	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	got := buf.String()
	want := "2026/03/14 15:09:26 INFO sync cycle finished new_matches=3 player=Smurf#EUW\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEnabledRespectsLevel(t *testing.T) {
	h := NewCompactHandler(&bytes.Buffer{}, slog.LevelInfo)

	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be disabled at info level")
	}
	if !h.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should be enabled at info level")
	}
}

func TestWithAttrsPrependsAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(&buf, slog.LevelDebug)).With("component", "syncer")

	logger.Debug("cycle started")

	if !strings.Contains(buf.String(), "component=syncer") {
		t.Errorf("expected component attr in output, got %q", buf.String())
	}
}
