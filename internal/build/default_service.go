package build

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docket/internal/config"
	"git.home.luguber.info/inful/docket/internal/doctree"
	"git.home.luguber.info/inful/docket/internal/errors"
	"git.home.luguber.info/inful/docket/internal/highlight"
	"git.home.luguber.info/inful/docket/internal/logfields"
	"git.home.luguber.info/inful/docket/internal/markdown"
	"git.home.luguber.info/inful/docket/internal/metrics"
	"git.home.luguber.info/inful/docket/internal/observability"
	"git.home.luguber.info/inful/docket/internal/render"
	"git.home.luguber.info/inful/docket/internal/render/layout"
	"git.home.luguber.info/inful/docket/internal/search"
	"git.home.luguber.info/inful/docket/internal/source"
	"git.home.luguber.info/inful/docket/internal/toc"
	"git.home.luguber.info/inful/docket/internal/workspace"
)

// Stage names reported to logs and metrics.
const (
	StageSource = "source"
	StageScan   = "scan"
	StageRender = "render"
	StageSearch = "search"
)

// SourceFactory creates the source for one build.
type SourceFactory func(cfg *config.Config) source.Source

// DefaultService is the standard implementation of Service. Runs on the same
// service are serialised since they share one output directory.
type DefaultService struct {
	mu               sync.Mutex
	workspaceFactory func() *workspace.Manager
	sourceFactory    SourceFactory
	recorder         metrics.Recorder
}

// NewService creates a DefaultService with ephemeral workspaces.
func NewService() *DefaultService {
	s := &DefaultService{
		workspaceFactory: func() *workspace.Manager { return workspace.NewManager("") },
		recorder:         metrics.NoopRecorder{},
	}
	s.sourceFactory = func(cfg *config.Config) source.Source {
		return source.New(cfg, s.workspaceFactory(), s.recorder)
	}
	return s
}

// WithWorkspaceFactory sets how workspaces for remote sources are created.
func (s *DefaultService) WithWorkspaceFactory(factory func() *workspace.Manager) *DefaultService {
	s.workspaceFactory = factory
	return s
}

// WithSourceFactory replaces source resolution (for testing).
func (s *DefaultService) WithSourceFactory(factory SourceFactory) *DefaultService {
	s.sourceFactory = factory
	return s
}

// WithRecorder sets the metrics recorder.
func (s *DefaultService) WithRecorder(rec metrics.Recorder) *DefaultService {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	s.recorder = rec
	return s
}

// Run executes the complete build pipeline.
func (s *DefaultService) Run(ctx context.Context, req Request) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startTime := time.Now()
	result := &Result{
		BuildID:   uuid.NewString(),
		StartTime: startTime,
	}
	ctx = observability.WithBuildID(ctx, result.BuildID)

	finish := func(err error) (*Result, error) {
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(startTime)
		s.recorder.ObserveBuildDuration(result.Duration)
		switch {
		case err == nil:
			result.Status = StatusSuccess
			s.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
			observability.InfoContext(ctx, "Build completed",
				logfields.Output(result.OutputPath),
				logfields.Count(result.Pages),
				logfields.DurationMS(float64(result.Duration.Microseconds())/1000))
		case ctx.Err() != nil:
			result.Status = StatusCancelled
			s.recorder.IncBuildOutcome(metrics.OutcomeCanceled)
		default:
			result.Status = StatusFailed
			s.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		}
		return result, err
	}

	cfg := req.Config
	if cfg == nil {
		return finish(errors.ConfigError("config required").Build())
	}
	result.OutputPath = cfg.Target

	// Source
	src := s.sourceFactory(cfg)
	defer func() {
		if err := src.Close(); err != nil {
			observability.WarnContext(ctx, "Failed to release source", logfields.Error(err))
		}
	}()
	dir, err := s.stage(ctx, StageSource, func(ctx context.Context) (string, error) {
		return src.Resolve(ctx)
	})
	if err != nil {
		return finish(classify(err))
	}
	result.SourcePath = dir
	ctx = observability.WithSource(ctx, dir)

	hl, err := highlight.New(cfg.Highlighter)
	if err != nil {
		return finish(errors.WrapError(err, errors.CategoryValidation, "invalid highlighter").Build())
	}

	// Scan
	loader := doctree.NewLoader(markdown.NewRenderer(hl))
	var root *doctree.UnopenedBale
	_, err = s.stage(ctx, StageScan, func(context.Context) (string, error) {
		var scanErr error
		root, scanErr = loader.OpenRoot(dir)
		return "", scanErr
	})
	if err != nil {
		return finish(classify(err))
	}

	// Render
	tally := &tally{Recorder: s.recorder}
	var index *search.Index
	if cfg.Search.IsEnabled() {
		index = search.NewIndex()
	}
	rc := &render.Context{
		Output:      cfg.Target,
		SiteName:    cfg.Title,
		Layout:      layout.NewHTML().WithOutlineDepth(cfg.TocDepth),
		Highlighter: hl,
		Recorder:    tally,
		Search:      index,
		Concurrency: cfg.Concurrency,
	}
	observability.DebugContext(ctx, "Rendering site",
		logfields.Layout(cfg.Layout),
		logfields.Highlighter(hl.Name()),
		logfields.Output(cfg.Target))
	_, err = s.stage(ctx, StageRender, func(ctx context.Context) (string, error) {
		return "", render.Render(ctx, rc, root)
	})
	result.Pages = int(tally.pages.Load())
	result.Bales = int(tally.bales.Load())
	result.Assets = int(tally.assets.Load())
	if err != nil {
		return finish(classify(err))
	}

	// Search
	if index != nil {
		_, err = s.stage(ctx, StageSearch, func(context.Context) (string, error) {
			return "", index.WriteTo(cfg.Target)
		})
		if err != nil {
			return finish(errors.WrapError(err, errors.CategoryFileSystem, "failed to write search index").
				WithContext("path", cfg.Target).Build())
		}
		result.SearchEntries = index.Len()
	}

	return finish(nil)
}

// stage runs fn as a named, timed step.
func (s *DefaultService) stage(ctx context.Context, name string, fn func(context.Context) (string, error)) (string, error) {
	ctx, st := observability.StartStage(ctx, name)
	out, err := fn(ctx)
	s.recorder.ObserveStageDuration(name, st.End(err))
	return out, err
}

// classify maps pipeline failures onto error categories.
func classify(err error) error {
	if errors.IsClassified(err) {
		return err
	}
	switch {
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return errors.WrapError(err, errors.CategoryRuntime, "build cancelled").Build()
	case stderrors.Is(err, doctree.ErrNotADirectory):
		return errors.WrapError(err, errors.CategoryValidation, "source is not a directory").Build()
	case stderrors.Is(err, doctree.ErrIo):
		return errors.WrapError(err, errors.CategoryFileSystem, "filesystem error").Build()
	case stderrors.Is(err, toc.ErrInconsistentHeadingStream):
		return errors.WrapError(err, errors.CategoryContent, "malformed document").Build()
	case stderrors.Is(err, render.ErrNoLayout):
		return errors.WrapError(err, errors.CategoryInternal, "no layout").Build()
	default:
		return errors.WrapError(err, errors.CategoryBuild, "build failed").Build()
	}
}

// tally counts what a render produced while forwarding to the real recorder.
type tally struct {
	metrics.Recorder
	pages, bales, assets atomic.Int64
}

func (t *tally) IncPagesRendered(kind metrics.PageKind) {
	t.pages.Add(1)
	t.Recorder.IncPagesRendered(kind)
}

func (t *tally) IncBalesOpened() {
	t.bales.Add(1)
	t.Recorder.IncBalesOpened()
}

func (t *tally) AddAssetsCopied(n int) {
	t.assets.Add(int64(n))
	t.Recorder.AddAssetsCopied(n)
}
