package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// captureLogs routes the default logger into a buffer for the duration of the test.
func captureLogs(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestWithBuildID(t *testing.T) {
	ctx := WithBuildID(context.Background(), "build-123")

	if lc := GetContext(ctx); lc.BuildID != "build-123" {
		t.Errorf("expected build-123, got %s", lc.BuildID)
	}
}

func TestWithStage(t *testing.T) {
	ctx := WithStage(context.Background(), "render")

	if lc := GetContext(ctx); lc.Stage != "render" {
		t.Errorf("expected render, got %s", lc.Stage)
	}
}

func TestContextChaining(t *testing.T) {
	ctx := WithBuildID(context.Background(), "b1")
	ctx = WithSource(ctx, "/docs")
	ctx = WithStage(ctx, "scan")

	lc := GetContext(ctx)
	if lc.BuildID != "b1" || lc.Source != "/docs" || lc.Stage != "scan" {
		t.Errorf("unexpected context: %+v", lc)
	}
}

func TestContextIsolation(t *testing.T) {
	parent := WithStage(context.Background(), "scan")
	child := WithStage(parent, "render")

	if GetContext(parent).Stage != "scan" {
		t.Error("child context leaked into parent")
	}
	if GetContext(child).Stage != "render" {
		t.Error("child stage not set")
	}
}

func TestEmptyContext(t *testing.T) {
	if lc := GetContext(context.Background()); lc != (LogContext{}) {
		t.Errorf("expected empty log context, got %+v", lc)
	}
}

func TestInfoContext(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo)

	ctx := WithBuildID(context.Background(), "build-1")
	ctx = WithSource(ctx, "/srv/docs")
	InfoContext(ctx, "test message", slog.String("extra", "value"))

	output := buf.String()
	for _, want := range []string{"build-1", "/srv/docs", "test message", "extra"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in log output: %s", want, output)
		}
	}
}

func TestWarnContext(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo)

	WarnContext(WithStage(context.Background(), "copy"), "warning message")

	output := buf.String()
	if !strings.Contains(output, `"stage":"copy"`) {
		t.Errorf("expected stage in log output: %s", output)
	}
	if !strings.Contains(output, "WARN") {
		t.Errorf("expected WARN level: %s", output)
	}
}

func TestDebugContextFilteredByLevel(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo)

	DebugContext(context.Background(), "hidden")

	if buf.Len() != 0 {
		t.Errorf("expected debug message to be filtered, got %s", buf.String())
	}
}

func TestStage_EndLogsFailure(t *testing.T) {
	buf := captureLogs(t, slog.LevelDebug)

	ctx := WithBuildID(context.Background(), "b2")
	_, st := StartStage(ctx, "render")
	if st.Name() != "render" {
		t.Fatalf("unexpected stage name %s", st.Name())
	}
	st.End(errors.New("disk full"))

	output := buf.String()
	for _, want := range []string{"Stage started", "Stage failed", "disk full", `"stage":"render"`, `"build_id":"b2"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in log output: %s", want, output)
		}
	}
}

func TestStage_EndReturnsElapsed(t *testing.T) {
	captureLogs(t, slog.LevelInfo)

	_, st := StartStage(context.Background(), "scan")
	if d := st.End(nil); d < 0 {
		t.Errorf("negative duration %v", d)
	}
}
