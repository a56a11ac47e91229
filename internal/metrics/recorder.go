package metrics

import "time"

// BuildOutcome enumerates final build states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// PageKind labels rendered pages.
type PageKind string

const (
	PageIndex  PageKind = "index"
	PageNested PageKind = "nested"
)

// Recorder defines observability hooks for site builds. Implementations must
// be safe for concurrent use: sibling bales render in parallel.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcome)
	IncPagesRendered(kind PageKind)
	AddAssetsCopied(n int)
	IncBalesOpened()
	ObserveCloneDuration(d time.Duration, success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(BuildOutcome)               {}
func (NoopRecorder) IncPagesRendered(PageKind)                  {}
func (NoopRecorder) AddAssetsCopied(int)                        {}
func (NoopRecorder) IncBalesOpened()                            {}
func (NoopRecorder) ObserveCloneDuration(time.Duration, bool)   {}
