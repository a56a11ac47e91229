package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/docket/internal/build"
	"git.home.luguber.info/inful/docket/internal/config"
	"git.home.luguber.info/inful/docket/internal/metrics"
	"git.home.luguber.info/inful/docket/internal/preview"
	"git.home.luguber.info/inful/docket/internal/workspace"
)

// PreviewCmd serves the rendered site and keeps it up to date.
type PreviewCmd struct {
	SourceFlags `embed:""`

	Port            int           `short:"p" help:"Port to listen on (default from config, else 1313)"`
	RebuildInterval time.Duration `name:"rebuild-interval" help:"Also rebuild on this interval (useful for git sources)"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if err := p.apply(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := p.server(cfg)
	return srv.Run(ctx, preview.Addr(cfg.Preview.Port))
}

func (p *PreviewCmd) apply(cfg *config.Config) error {
	if p.Port != 0 {
		cfg.Preview.Port = p.Port
	}
	if p.RebuildInterval != 0 {
		cfg.Preview.RebuildInterval = config.Duration(p.RebuildInterval)
	}
	return p.SourceFlags.apply(cfg)
}

func (p *PreviewCmd) server(cfg *config.Config) *preview.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := build.NewService().
		WithRecorder(metrics.NewPrometheusRecorder(reg)).
		WithWorkspaceFactory(func() *workspace.Manager {
			return workspace.NewPersistentManager(filepath.Join(os.TempDir(), "docket"), "preview")
		})
	return preview.NewServer(cfg, svc, reg)
}
