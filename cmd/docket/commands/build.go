package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docket/internal/build"
	"git.home.luguber.info/inful/docket/internal/config"
	"git.home.luguber.info/inful/docket/internal/errors"
	"git.home.luguber.info/inful/docket/internal/logfields"
	"git.home.luguber.info/inful/docket/internal/preview"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	SourceFlags `embed:""`

	Watch bool `short:"w" help:"Rebuild whenever the source changes; failed builds are logged and skipped"`

	// Stdout receives the build summary; tests replace it.
	Stdout io.Writer `kong:"-"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if err := b.apply(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if b.Watch {
		return b.watch(ctx, cfg)
	}
	return b.once(ctx, build.NewService(), cfg)
}

func (b *BuildCmd) stdout() io.Writer {
	if b.Stdout == nil {
		return os.Stdout
	}
	return b.Stdout
}

func (b *BuildCmd) once(ctx context.Context, svc build.Service, cfg *config.Config) error {
	res, err := svc.Run(ctx, build.Request{Config: cfg})
	if err != nil {
		return err
	}
	fmt.Fprintf(b.stdout(), "Rendered %d pages from %s into %s in %s\n",
		res.Pages, res.SourcePath, res.OutputPath, res.Duration.Round(time.Millisecond))
	return nil
}

// watch builds once, then rebuilds on every settled change until ctx is
// done. Build failures never end the loop.
func (b *BuildCmd) watch(ctx context.Context, cfg *config.Config) error {
	svc := build.NewService()

	rebuild := func(ctx context.Context) {
		if err := b.once(ctx, svc, cfg); err != nil && ctx.Err() == nil {
			slog.Error("Build failed; waiting for changes", logfields.Error(err))
		}
	}
	if cfg.Git.URL != "" {
		return errors.ValidationError("--watch needs a local source").WithContext("url", cfg.Git.URL).Build()
	}
	rebuild(ctx)

	w, err := preview.NewWatcher(cfg.Source, cfg.Target)
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "failed to watch source").Build()
	}
	defer func() { _ = w.Close() }()

	rebuilder := preview.NewRebuilder(rebuild)
	go rebuilder.Run(ctx)

	slog.Info("Watching for changes", logfields.Path(w.Root()))
	return w.Run(ctx, rebuilder.Trigger)
}
