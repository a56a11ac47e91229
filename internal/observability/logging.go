package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/docket/internal/logfields"
)

// LogContext is the build information carried on a context and attached to
// every log line emitted through this package.
type LogContext struct {
	BuildID string
	Stage   string
	Source  string
}

type logContextKey struct{}

func update(ctx context.Context, set func(*LogContext)) context.Context {
	lc := GetContext(ctx)
	set(&lc)
	return context.WithValue(ctx, logContextKey{}, lc)
}

// WithBuildID tags ctx with the id of the running build.
func WithBuildID(ctx context.Context, buildID string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.BuildID = buildID })
}

// WithStage tags ctx with the current build stage.
func WithStage(ctx context.Context, stage string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.Stage = stage })
}

// WithSource tags ctx with the source directory being built.
func WithSource(ctx context.Context, source string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.Source = source })
}

// GetContext returns the LogContext carried by ctx, or the zero value.
func GetContext(ctx context.Context) LogContext {
	lc, _ := ctx.Value(logContextKey{}).(LogContext)
	return lc
}

// Attrs returns the non-empty fields of ctx's LogContext as slog attributes.
func (lc LogContext) Attrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 3)
	if lc.BuildID != "" {
		attrs = append(attrs, logfields.BuildID(lc.BuildID))
	}
	if lc.Stage != "" {
		attrs = append(attrs, logfields.Stage(lc.Stage))
	}
	if lc.Source != "" {
		attrs = append(attrs, logfields.Path(lc.Source))
	}
	return attrs
}

func logCtx(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	slog.LogAttrs(ctx, level, msg, append(GetContext(ctx).Attrs(), attrs...)...)
}

func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logCtx(ctx, slog.LevelDebug, msg, attrs)
}

func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logCtx(ctx, slog.LevelInfo, msg, attrs)
}

func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logCtx(ctx, slog.LevelWarn, msg, attrs)
}

func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logCtx(ctx, slog.LevelError, msg, attrs)
}
