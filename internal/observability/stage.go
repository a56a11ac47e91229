package observability

import (
	"context"
	"time"

	"git.home.luguber.info/inful/docket/internal/logfields"
)

// Stage times one named step of a build. The stage name is attached to the
// returned context so log lines emitted during the step carry it.
type Stage struct {
	ctx   context.Context
	name  string
	start time.Time
}

// StartStage begins timing a stage.
func StartStage(ctx context.Context, name string) (context.Context, *Stage) {
	ctx = WithStage(ctx, name)
	DebugContext(ctx, "Stage started")
	return ctx, &Stage{ctx: ctx, name: name, start: time.Now()}
}

// Name returns the stage name.
func (s *Stage) Name() string { return s.name }

// End logs the stage duration, and the error if the stage failed. It returns
// the elapsed time.
func (s *Stage) End(err error) time.Duration {
	elapsed := time.Since(s.start)
	ms := logfields.DurationMS(float64(elapsed.Microseconds()) / 1000)
	if err != nil {
		ErrorContext(s.ctx, "Stage failed", ms, logfields.Error(err))
		return elapsed
	}
	DebugContext(s.ctx, "Stage completed", ms)
	return elapsed
}
