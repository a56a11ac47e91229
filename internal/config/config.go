// Package config loads the optional docket.yaml project file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docket/internal/errors"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "docket.yaml"

// Config represents the complete project configuration.
type Config struct {
	Title       string        `yaml:"title,omitempty"`
	Source      string        `yaml:"source,omitempty"`
	Target      string        `yaml:"target,omitempty"`
	Layout      string        `yaml:"layout,omitempty"`
	Highlighter string        `yaml:"highlighter,omitempty"`
	TocDepth    int           `yaml:"toc_depth,omitempty"`
	Concurrency int           `yaml:"concurrency,omitempty"`
	Search      SearchConfig  `yaml:"search"`
	Log         LogConfig     `yaml:"log"`
	Preview     PreviewConfig `yaml:"preview"`
	Git         GitConfig     `yaml:"git"`
}

// SearchConfig controls the search index written next to the site.
type SearchConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// IsEnabled reports whether the search index should be written. Unset means enabled.
func (s SearchConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	Port            int      `yaml:"port,omitempty"`
	RebuildInterval Duration `yaml:"rebuild_interval,omitempty"`
}

// GitConfig describes a remote documentation source. When URL is empty the
// local Source directory is used.
type GitConfig struct {
	URL    string `yaml:"url,omitempty"`
	Branch string `yaml:"branch,omitempty"`
	Depth  int    `yaml:"depth,omitempty"`
	// Path is the documentation root inside the repository.
	Path string `yaml:"path,omitempty"`
	// Token is used for HTTPS basic auth when set.
	Token string `yaml:"token,omitempty"`
}

// Duration is a time.Duration that reads "30s" style strings from YAML.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalYAML() (any, error) {
	if d == 0 {
		return "", nil
	}
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	raw := strings.TrimSpace(node.Value)
	if raw == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration from configPath. Environment variables are
// expanded in the file contents after any .env file has been loaded.
func Load(configPath string) (*Config, error) {
	if _, err := loadEnvFile(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to load .env file").Build()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewError(errors.CategoryNotFound, "configuration file not found").
				WithContext("path", configPath).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).Build()
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").
			WithContext("path", configPath).Build()
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOptional loads configPath when it exists. A missing file that was not
// explicitly requested yields the defaults.
func LoadOptional(configPath string) (*Config, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = DefaultFile
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) && !explicit {
		if _, err := loadEnvFile(); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to load .env file").Build()
		}
		return Default(), nil
	}
	return Load(configPath)
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}

	enabled := true
	example := Config{
		Title:       "My Documentation",
		Source:      "docs",
		Target:      "site",
		Layout:      LayoutHTML,
		Highlighter: "js",
		TocDepth:    defaultTocDepth,
		Search:      SearchConfig{Enabled: &enabled},
		Log:         LogConfig{Level: LogLevelInfo, Format: LogFormatText},
		Preview:     PreviewConfig{Port: defaultPreviewPort},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Build()
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).Build()
	}
	return nil
}
