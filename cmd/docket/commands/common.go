package commands

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docket/internal/config"
)

// EnvLogLevel overrides the configured log level.
const EnvLogLevel = "DOCKET_LOG_LEVEL"

// Global carries state shared by all subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path (defaults to docket.yaml when present)"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" enum:",text,json" default:"" help:"Log output format (text or json)"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" default:"withargs" help:"Render the documentation tree to HTML (default)"`
	Preview PreviewCmd `cmd:"" help:"Serve the rendered site and rebuild it on change"`
	Init    InitCmd    `cmd:"" help:"Write an example docket.yaml"`

	// Stderr receives log output; tests replace it.
	Stderr io.Writer `kong:"-"`
}

// AfterApply runs after flag parsing; set up logging once flags are known.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	c.setupLogging(config.LogLevelInfo, config.LogFormatText)
	return nil
}

// LoadConfig loads the configuration file and re-applies logging settings
// found in it.
func (c *CLI) LoadConfig() (*config.Config, error) {
	cfg, err := config.LoadOptional(c.Config)
	if err != nil {
		return nil, err
	}
	c.setupLogging(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

// setupLogging installs the default slog handler. --verbose beats the
// environment, which beats the configured level.
func (c *CLI) setupLogging(level config.LogLevel, format config.LogFormat) {
	if env := strings.TrimSpace(os.Getenv(EnvLogLevel)); env != "" {
		level = config.NormalizeLogLevel(env)
	}
	if c.Verbose {
		level = config.LogLevelDebug
	}
	if c.LogFormat != "" {
		format = config.NormalizeLogFormat(c.LogFormat)
	}

	out := c.Stderr
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level.SlogLevel()}
	var handler slog.Handler = slog.NewTextHandler(out, opts)
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(out, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// SourceFlags are shared by the commands that build a site.
type SourceFlags struct {
	Source      string `short:"s" help:"Documentation source directory" type:"path"`
	Target      string `short:"t" help:"Output directory for the rendered site" type:"path"`
	Title       string `help:"Site title shown in breadcrumbs"`
	Highlighter string `help:"Code highlighting: js, chroma or none"`
}

// apply overrides cfg with any flag the user set and revalidates it.
func (f SourceFlags) apply(cfg *config.Config) error {
	if f.Source != "" {
		cfg.Source = f.Source
	}
	if f.Target != "" {
		cfg.Target = f.Target
	}
	if f.Title != "" {
		cfg.Title = f.Title
	}
	if f.Highlighter != "" {
		cfg.Highlighter = strings.ToLower(strings.TrimSpace(f.Highlighter))
	}
	return cfg.Validate()
}
