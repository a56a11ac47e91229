package workspace

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docket/internal/errors"
	"git.home.luguber.info/inful/docket/internal/logfields"
)

// Manager owns the scratch directory a remote source is checked out into.
// Ephemeral workspaces get a fresh directory per Create and are removed by
// Cleanup; persistent ones are reused so a later build can pull instead of
// clone.
type Manager struct {
	baseDir    string
	dir        string
	persistent bool
}

// NewManager creates a workspace manager with ephemeral directories under baseDir.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// NewPersistentManager creates a workspace manager that uses baseDir/subdirName.
// The directory is never removed by Cleanup.
func NewPersistentManager(baseDir, subdirName string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if subdirName == "" {
		subdirName = "working"
	}
	return &Manager{
		baseDir:    baseDir,
		dir:        filepath.Join(baseDir, subdirName),
		persistent: true,
	}
}

// Create creates the workspace directory.
func (m *Manager) Create() error {
	if m.persistent {
		if err := os.MkdirAll(m.dir, 0o750); err != nil {
			return fsError(err, "failed to create persistent workspace", m.dir)
		}
		slog.Debug("Using persistent workspace", logfields.Path(m.dir))
		return nil
	}

	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		return fsError(err, "failed to create workspace base", m.baseDir)
	}
	// Rebuilds in watch mode can land within the same second.
	dir, err := os.MkdirTemp(m.baseDir, "docket-"+time.Now().Format("20060102-150405")+"-")
	if err != nil {
		return fsError(err, "failed to create workspace", m.baseDir)
	}
	m.dir = dir
	slog.Debug("Created workspace", logfields.Path(dir))
	return nil
}

// Path returns the workspace directory, or "" before Create.
func (m *Manager) Path() string {
	return m.dir
}

// Persistent reports whether Cleanup keeps the directory.
func (m *Manager) Persistent() bool {
	return m.persistent
}

// Cleanup removes an ephemeral workspace directory.
func (m *Manager) Cleanup() error {
	if m.dir == "" {
		return nil
	}
	if m.persistent {
		slog.Debug("Skipping cleanup for persistent workspace", logfields.Path(m.dir))
		return nil
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return fsError(err, "failed to clean up workspace", m.dir)
	}
	slog.Debug("Cleaned up workspace", logfields.Path(m.dir))
	m.dir = ""
	return nil
}

// Subdir creates and returns a subdirectory within the workspace.
func (m *Manager) Subdir(name string) (string, error) {
	if m.dir == "" {
		return "", errors.InternalError("workspace not created").WithContext("subdir", name).Build()
	}
	sub := filepath.Join(m.dir, name)
	if err := os.MkdirAll(sub, 0o750); err != nil {
		return "", fsError(err, "failed to create workspace subdirectory", sub)
	}
	return sub, nil
}

func fsError(err error, msg, path string) error {
	return errors.WrapError(err, errors.CategoryFileSystem, msg).WithContext("path", path).Build()
}
