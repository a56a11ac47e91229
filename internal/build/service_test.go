package build

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docket/internal/config"
	"git.home.luguber.info/inful/docket/internal/doctree"
	"git.home.luguber.info/inful/docket/internal/errors"
	"git.home.luguber.info/inful/docket/internal/metrics"
	"git.home.luguber.info/inful/docket/internal/render"
	"git.home.luguber.info/inful/docket/internal/search"
	"git.home.luguber.info/inful/docket/internal/source"
	"git.home.luguber.info/inful/docket/internal/toc"
)

type outcomeRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	outcomes []metrics.BuildOutcome
	stages   []string
}

func (r *outcomeRecorder) IncBuildOutcome(o metrics.BuildOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func (r *outcomeRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, stage)
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

func testConfig(t *testing.T, src string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Title = "Test Site"
	cfg.Source = src
	cfg.Target = filepath.Join(t.TempDir(), "out")
	cfg.Highlighter = "none"
	return cfg
}

func TestStatus_IsSuccess(t *testing.T) {
	assert.True(t, StatusSuccess.IsSuccess())
	assert.False(t, StatusFailed.IsSuccess())
	assert.False(t, StatusCancelled.IsSuccess())
}

func TestDefaultService_Run(t *testing.T) {
	src := writeTree(t, map[string]string{
		"index.md":             "# Home\n\nWelcome.\n",
		"01-install.md":        "# Install\n\nRun the installer.\n",
		"guide/README.md":      "# Guide\n\n[TOC]\n\n## Basics\n",
		"guide/advanced.md":    "# Advanced Topics\n",
		"images/logo.png":      "png",
		"guide/footer.md":      "guide footer",
		"guide/data/notes.txt": "notes",
	})
	cfg := testConfig(t, src)
	rec := &outcomeRecorder{}

	res, err := NewService().WithRecorder(rec).Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, res.Status)
	assert.NotEmpty(t, res.BuildID)
	assert.Equal(t, src, res.SourcePath)
	assert.Equal(t, cfg.Target, res.OutputPath)
	assert.Equal(t, 4, res.Pages)
	assert.Equal(t, 2, res.Bales)
	assert.Equal(t, 4, res.SearchEntries)
	assert.Positive(t, res.Assets)
	assert.Equal(t, []metrics.BuildOutcome{metrics.OutcomeSuccess}, rec.outcomes)
	assert.Equal(t, []string{StageSource, StageScan, StageRender, StageSearch}, rec.stages)

	for _, p := range []string{
		"index.html",
		"install/index.html",
		"guide/index.html",
		"guide/advanced/index.html",
		"images/logo.png",
		"guide/data/notes.txt",
		search.IndexFile,
	} {
		assert.FileExists(t, filepath.Join(cfg.Target, filepath.FromSlash(p)))
	}

	data, err := os.ReadFile(filepath.Join(cfg.Target, search.IndexFile))
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Len(t, entries, 4)

	guide, err := os.ReadFile(filepath.Join(cfg.Target, "guide", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(guide), "guide footer")
	assert.Contains(t, string(guide), "<a href='#Basics'>Basics</a>")
}

func TestDefaultService_SearchDisabled(t *testing.T) {
	cfg := testConfig(t, writeTree(t, map[string]string{"index.md": "# Home\n"}))
	disabled := false
	cfg.Search.Enabled = &disabled

	res, err := NewService().Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)
	assert.Zero(t, res.SearchEntries)
	assert.NoFileExists(t, filepath.Join(cfg.Target, search.IndexFile))
}

func TestDefaultService_Failures(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		rec := &outcomeRecorder{}
		res, err := NewService().WithRecorder(rec).Run(context.Background(), Request{})
		require.Error(t, err)
		assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
		assert.Equal(t, StatusFailed, res.Status)
		assert.Equal(t, []metrics.BuildOutcome{metrics.OutcomeFailed}, rec.outcomes)
	})

	t.Run("missing source", func(t *testing.T) {
		cfg := testConfig(t, filepath.Join(t.TempDir(), "nope"))
		res, err := NewService().Run(context.Background(), Request{Config: cfg})
		require.Error(t, err)
		assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
		assert.Equal(t, StatusFailed, res.Status)
	})

	t.Run("unknown highlighter", func(t *testing.T) {
		cfg := testConfig(t, writeTree(t, map[string]string{"index.md": "# Home\n"}))
		cfg.Highlighter = "pygments"
		_, err := NewService().Run(context.Background(), Request{Config: cfg})
		require.Error(t, err)
		assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	})

	t.Run("cancelled", func(t *testing.T) {
		cfg := testConfig(t, writeTree(t, map[string]string{"a.md": "# A\n", "b.md": "# B\n"}))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		rec := &outcomeRecorder{}
		res, err := NewService().WithRecorder(rec).Run(ctx, Request{Config: cfg})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, StatusCancelled, res.Status)
		assert.Equal(t, []metrics.BuildOutcome{metrics.OutcomeCanceled}, rec.outcomes)
	})
}

type closingSource struct {
	dir    string
	closed bool
}

func (c *closingSource) Resolve(context.Context) (string, error) { return c.dir, nil }
func (c *closingSource) Close() error {
	c.closed = true
	return nil
}

func TestDefaultService_ClosesSource(t *testing.T) {
	src := &closingSource{dir: writeTree(t, map[string]string{"index.md": "# Home\n"})}
	cfg := testConfig(t, "unused")

	svc := NewService().WithSourceFactory(func(*config.Config) source.Source { return src })
	res, err := svc.Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, src.dir, res.SourcePath)
	assert.True(t, src.closed)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want errors.ErrorCategory
	}{
		{fmt.Errorf("x: %w", context.Canceled), errors.CategoryRuntime},
		{fmt.Errorf("%w: /tmp/f", doctree.ErrNotADirectory), errors.CategoryValidation},
		{fmt.Errorf("%w: read /tmp/f", doctree.ErrIo), errors.CategoryFileSystem},
		{fmt.Errorf("%w: unmatched", toc.ErrInconsistentHeadingStream), errors.CategoryContent},
		{render.ErrNoLayout, errors.CategoryInternal},
		{stderrors.New("boom"), errors.CategoryBuild},
		{errors.GitError("clone").Build(), errors.CategoryGit},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			got := classify(tt.err)
			assert.Equal(t, tt.want, errors.GetCategory(got))
			assert.ErrorIs(t, got, tt.err)
		})
	}
}
