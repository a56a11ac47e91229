package config

import (
	"strings"

	"git.home.luguber.info/inful/docket/internal/errors"
	"git.home.luguber.info/inful/docket/internal/highlight"
)

// LayoutHTML is the only built in layout.
const LayoutHTML = "html"

const (
	defaultTitle       = "Documentation"
	defaultSource      = "."
	defaultTarget      = "target"
	defaultTocDepth    = 3
	defaultPreviewPort = 1313
	defaultGitBranch   = "main"
	defaultGitDepth    = 1
)

func applyDefaults(cfg *Config) {
	if cfg.Title == "" {
		cfg.Title = defaultTitle
	}
	if cfg.Source == "" {
		cfg.Source = defaultSource
	}
	if cfg.Target == "" {
		cfg.Target = defaultTarget
	}
	if cfg.Layout == "" {
		cfg.Layout = LayoutHTML
	}
	cfg.Highlighter = strings.ToLower(strings.TrimSpace(cfg.Highlighter))
	if cfg.Highlighter == "" {
		cfg.Highlighter = highlight.NameJS
	}
	if cfg.TocDepth == 0 {
		cfg.TocDepth = defaultTocDepth
	}
	cfg.Log.Level = NormalizeLogLevel(string(cfg.Log.Level))
	cfg.Log.Format = NormalizeLogFormat(string(cfg.Log.Format))
	if cfg.Preview.Port == 0 {
		cfg.Preview.Port = defaultPreviewPort
	}
	if cfg.Git.URL != "" {
		if cfg.Git.Branch == "" {
			cfg.Git.Branch = defaultGitBranch
		}
		if cfg.Git.Depth == 0 {
			cfg.Git.Depth = defaultGitDepth
		}
	}
}

// Validate checks the configuration for values the build cannot work with.
func (c *Config) Validate() error {
	if c.Layout != LayoutHTML {
		return errors.ValidationError("unsupported layout").WithContext("layout", c.Layout).Build()
	}
	switch c.Highlighter {
	case highlight.NameJS, highlight.NameChroma, highlight.NameNone, "highlightjs", "syntect", "plain":
	default:
		return errors.ValidationError("unknown highlighter").WithContext("highlighter", c.Highlighter).Build()
	}
	if c.TocDepth < 1 || c.TocDepth > 6 {
		return errors.ValidationError("toc_depth must be between 1 and 6").WithContext("toc_depth", c.TocDepth).Build()
	}
	if c.Concurrency < 0 {
		return errors.ValidationError("concurrency must not be negative").WithContext("concurrency", c.Concurrency).Build()
	}
	if c.Preview.Port < 1 || c.Preview.Port > 65535 {
		return errors.ValidationError("preview.port out of range").WithContext("port", c.Preview.Port).Build()
	}
	if c.Preview.RebuildInterval < 0 {
		return errors.ValidationError("preview.rebuild_interval must not be negative").Build()
	}
	if c.Git.URL == "" && (c.Git.Branch != "" || c.Git.Path != "") {
		return errors.ValidationError("git.branch and git.path require git.url").Build()
	}
	if c.Git.Depth < 0 {
		return errors.ValidationError("git.depth must not be negative").WithContext("depth", c.Git.Depth).Build()
	}
	if strings.Contains(c.Git.Path, "..") {
		return errors.ValidationError("git.path must stay inside the repository").WithContext("path", c.Git.Path).Build()
	}
	return nil
}
