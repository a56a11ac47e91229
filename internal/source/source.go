// Package source resolves the directory a site is built from: either a local
// directory or a checkout of a remote git repository.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.home.luguber.info/inful/docket/internal/config"
	"git.home.luguber.info/inful/docket/internal/errors"
	"git.home.luguber.info/inful/docket/internal/logfields"
	"git.home.luguber.info/inful/docket/internal/metrics"
	"git.home.luguber.info/inful/docket/internal/workspace"
)

// checkoutDir is the workspace subdirectory a repository is cloned into.
const checkoutDir = "repo"

// Source yields the directory to build from.
type Source interface {
	// Resolve prepares the source and returns its documentation root.
	Resolve(ctx context.Context) (string, error)
	// Close releases anything Resolve created.
	Close() error
}

// Local is a documentation tree already on disk.
type Local struct {
	Dir string
}

func (l Local) Resolve(context.Context) (string, error) {
	info, err := os.Stat(l.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewError(errors.CategoryNotFound, "source directory not found").
				WithContext("path", l.Dir).Build()
		}
		return "", errors.WrapError(err, errors.CategoryFileSystem, "cannot stat source directory").
			WithContext("path", l.Dir).Build()
	}
	if !info.IsDir() {
		return "", errors.ValidationError("source is not a directory").WithContext("path", l.Dir).Build()
	}
	return l.Dir, nil
}

func (Local) Close() error { return nil }

// Git is a remote repository checked out into a workspace. With a
// persistent workspace later resolves pull into the existing checkout.
type Git struct {
	Config    config.GitConfig
	Workspace *workspace.Manager
	Recorder  metrics.Recorder
}

// New picks the source described by cfg.
func New(cfg *config.Config, ws *workspace.Manager, rec metrics.Recorder) Source {
	if cfg.Git.URL == "" {
		return Local{Dir: cfg.Source}
	}
	if ws == nil {
		ws = workspace.NewManager("")
	}
	return &Git{Config: cfg.Git, Workspace: ws, Recorder: rec}
}

func (g *Git) recorder() metrics.Recorder {
	if g.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return g.Recorder
}

func (g *Git) Resolve(ctx context.Context) (string, error) {
	if err := g.Workspace.Create(); err != nil {
		return "", err
	}
	repoPath, err := g.Workspace.Subdir(checkoutDir)
	if err != nil {
		return "", err
	}

	start := time.Now()
	if _, statErr := os.Stat(filepath.Join(repoPath, ".git")); statErr == nil {
		err = g.update(ctx, repoPath)
	} else {
		err = g.clone(ctx, repoPath)
	}
	g.recorder().ObserveCloneDuration(time.Since(start), err == nil)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryGit, "failed to fetch repository").
			WithContext("url", g.Config.URL).
			WithContext("branch", g.Config.Branch).
			Build()
	}

	root := filepath.Join(repoPath, filepath.FromSlash(g.Config.Path))
	return Local{Dir: root}.Resolve(ctx)
}

func (g *Git) Close() error {
	return g.Workspace.Cleanup()
}

func (g *Git) clone(ctx context.Context, repoPath string) error {
	slog.Debug("Cloning repository",
		logfields.URL(g.Config.URL),
		logfields.Branch(g.Config.Branch),
		logfields.Path(repoPath))

	if err := os.RemoveAll(repoPath); err != nil {
		return fmt.Errorf("failed to remove existing directory: %w", err)
	}

	opts := &git.CloneOptions{
		URL:   g.Config.URL,
		Depth: g.Config.Depth,
		Auth:  g.auth(),
	}
	if g.Config.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(g.Config.Branch)
		opts.SingleBranch = true
	}

	repository, err := git.PlainCloneContext(ctx, repoPath, false, opts)
	if err != nil {
		return fmt.Errorf("clone %s: %w", g.Config.URL, err)
	}
	logHead(repository, "Repository cloned", g.Config.URL)
	return nil
}

func (g *Git) update(ctx context.Context, repoPath string) error {
	repository, err := git.PlainOpen(repoPath)
	if err != nil {
		return fmt.Errorf("open repo: %w", err)
	}
	wt, err := repository.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}

	opts := &git.PullOptions{
		RemoteName: git.DefaultRemoteName,
		Depth:      g.Config.Depth,
		Auth:       g.auth(),
		Force:      true,
	}
	if g.Config.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(g.Config.Branch)
		opts.SingleBranch = true
	}

	err = wt.PullContext(ctx, opts)
	switch {
	case err == git.NoErrAlreadyUpToDate:
		slog.Debug("Repository already up to date", logfields.URL(g.Config.URL))
		return nil
	case err != nil:
		return fmt.Errorf("pull %s: %w", g.Config.URL, err)
	}
	logHead(repository, "Repository updated", g.Config.URL)
	return nil
}

func (g *Git) auth() transport.AuthMethod {
	if g.Config.Token == "" {
		return nil
	}
	return &http.BasicAuth{Username: "token", Password: g.Config.Token}
}

func logHead(repository *git.Repository, msg, url string) {
	ref, err := repository.Head()
	if err != nil {
		slog.Info(msg, logfields.URL(url))
		return
	}
	slog.Info(msg, logfields.URL(url), logfields.Commit(ref.Hash().String()[:8]))
}
