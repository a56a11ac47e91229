package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docket/internal/config"
	"git.home.luguber.info/inful/docket/internal/errors"
)

// run parses args like the docket binary does and runs the selected command.
func run(t *testing.T, cli *CLI, args ...string) error {
	t.Helper()
	if cli.Stderr == nil {
		cli.Stderr = &bytes.Buffer{}
	}
	parser, err := kong.New(cli,
		kong.Name("docket"),
		kong.Vars{"version": "test"},
		kong.Exit(func(int) { t.Fatalf("unexpected exit for %v", args) }),
	)
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return ctx.Run(&Global{}, cli)
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

func TestBuildCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	src := writeTree(t, map[string]string{
		"index.md":        "# Handbook\n\nHello.\n",
		"10-later.md":     "# Later\n",
		"2-sooner.md":     "# Sooner\n",
		"guide/README.md": "# Guide\n",
	})
	target := filepath.Join(t.TempDir(), "site")

	var out bytes.Buffer
	cli := &CLI{Build: BuildCmd{Stdout: &out}}
	require.NoError(t, run(t, cli, "build", "-s", src, "-t", target, "--title", "Handbook"))

	assert.Contains(t, out.String(), "Rendered 4 pages")
	assert.FileExists(t, filepath.Join(target, "index.html"))
	assert.FileExists(t, filepath.Join(target, "sooner", "index.html"))
	assert.FileExists(t, filepath.Join(target, "later", "index.html"))
	assert.FileExists(t, filepath.Join(target, "guide", "index.html"))

	html, err := os.ReadFile(filepath.Join(target, "guide", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "Handbook")
}

func TestBuildIsDefaultCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	src := writeTree(t, map[string]string{"index.md": "# Home\n"})
	target := filepath.Join(t.TempDir(), "site")

	cli := &CLI{Build: BuildCmd{Stdout: &bytes.Buffer{}}}
	require.NoError(t, run(t, cli, "-s", src, "-t", target))
	assert.FileExists(t, filepath.Join(target, "index.html"))
}

func TestBuildCommand_ConfigAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	src := writeTree(t, map[string]string{"index.md": "# Home\n"})
	configured := filepath.Join(dir, "configured")
	flagged := filepath.Join(dir, "flagged")
	require.NoError(t, os.WriteFile(config.DefaultFile,
		[]byte("source: "+src+"\ntarget: "+configured+"\n"), 0o600))

	cli := &CLI{Build: BuildCmd{Stdout: &bytes.Buffer{}}}
	require.NoError(t, run(t, cli, "build"))
	assert.FileExists(t, filepath.Join(configured, "index.html"))

	cli = &CLI{Build: BuildCmd{Stdout: &bytes.Buffer{}}}
	require.NoError(t, run(t, cli, "build", "-t", flagged))
	assert.FileExists(t, filepath.Join(flagged, "index.html"))
}

func TestBuildCommand_Errors(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("missing source", func(t *testing.T) {
		cli := &CLI{Build: BuildCmd{Stdout: &bytes.Buffer{}}}
		err := run(t, cli, "build", "-s", filepath.Join(t.TempDir(), "nope"), "-t", t.TempDir())
		require.Error(t, err)
		assert.Equal(t, 3, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	})

	t.Run("bad highlighter", func(t *testing.T) {
		cli := &CLI{Build: BuildCmd{Stdout: &bytes.Buffer{}}}
		err := run(t, cli, "build", "-s", t.TempDir(), "--highlighter", "pygments")
		require.Error(t, err)
		assert.Equal(t, 2, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	})

	t.Run("explicit config missing", func(t *testing.T) {
		cli := &CLI{Build: BuildCmd{Stdout: &bytes.Buffer{}}}
		err := run(t, cli, "-c", filepath.Join(t.TempDir(), "absent.yaml"), "build")
		require.Error(t, err)
		assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
	})
}

func TestInitCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	out := t.TempDir()

	var stdout bytes.Buffer
	cli := &CLI{Init: InitCmd{Stdout: &stdout}}
	require.NoError(t, run(t, cli, "init", "-o", out))
	assert.FileExists(t, filepath.Join(out, config.DefaultFile))
	assert.Contains(t, stdout.String(), config.DefaultFile)

	cli = &CLI{Init: InitCmd{Stdout: &stdout}}
	err := run(t, cli, "init", "-o", out)
	require.Error(t, err)

	cli = &CLI{Init: InitCmd{Stdout: &stdout}}
	require.NoError(t, run(t, cli, "init", "-o", out, "--force"))
}

func TestLogging(t *testing.T) {
	t.Chdir(t.TempDir())
	src := writeTree(t, map[string]string{"index.md": "# Home\n"})

	t.Run("verbose json", func(t *testing.T) {
		var logs bytes.Buffer
		cli := &CLI{Stderr: &logs, Build: BuildCmd{Stdout: &bytes.Buffer{}}}
		require.NoError(t, run(t, cli, "-v", "--log-format", "json", "build", "-s", src, "-t", t.TempDir()))
		assert.Contains(t, logs.String(), `"level":"DEBUG"`)
		assert.Contains(t, logs.String(), `"build_id"`)
	})

	t.Run("environment level", func(t *testing.T) {
		t.Setenv(EnvLogLevel, "error")
		var logs bytes.Buffer
		cli := &CLI{Stderr: &logs, Build: BuildCmd{Stdout: &bytes.Buffer{}}}
		require.NoError(t, run(t, cli, "build", "-s", src, "-t", t.TempDir()))
		assert.Empty(t, logs.String())
	})
}

func TestPreviewCommand_Apply(t *testing.T) {
	cfg := config.Default()
	p := &PreviewCmd{Port: 8088, RebuildInterval: 90e9, SourceFlags: SourceFlags{Title: "Preview"}}
	require.NoError(t, p.apply(cfg))
	assert.Equal(t, 8088, cfg.Preview.Port)
	assert.Equal(t, "1m30s", cfg.Preview.RebuildInterval.Std().String())
	assert.Equal(t, "Preview", cfg.Title)

	assert.NotNil(t, p.server(cfg).Handler())
}
