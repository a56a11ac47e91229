package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyOutput     = "output"
	KeySlug       = "slug"
	KeyBale       = "bale"
	KeyPage       = "page"
	KeyAsset      = "asset"
	KeyCount      = "count"
	KeyLayout     = "layout"
	KeyHighlight  = "highlighter"
	KeyURL        = "url"
	KeyBranch     = "branch"
	KeyCommit     = "commit"
	KeyAddr       = "addr"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr       { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func Output(p string) slog.Attr         { return slog.String(KeyOutput, p) }
func Slug(s string) slog.Attr           { return slog.String(KeySlug, s) }
func Bale(title string) slog.Attr       { return slog.String(KeyBale, title) }
func Page(title string) slog.Attr       { return slog.String(KeyPage, title) }
func Asset(name string) slog.Attr       { return slog.String(KeyAsset, name) }
func Count(n int) slog.Attr             { return slog.Int(KeyCount, n) }
func Layout(name string) slog.Attr      { return slog.String(KeyLayout, name) }
func Highlighter(name string) slog.Attr { return slog.String(KeyHighlight, name) }
func URL(u string) slog.Attr            { return slog.String(KeyURL, u) }
func Branch(b string) slog.Attr         { return slog.String(KeyBranch, b) }
func Commit(h string) slog.Attr         { return slog.String(KeyCommit, h) }
func Addr(a string) slog.Attr           { return slog.String(KeyAddr, a) }
func Method(m string) slog.Attr         { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr         { return slog.Int(KeyStatus, code) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
