// Package asset copies static files into a rendered site.
package asset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Asset is a file or directory that is copied verbatim into the output.
type Asset interface {
	// Name is the base name the asset takes in the output directory.
	Name() string
	// CopyTo places the asset inside dir.
	CopyTo(dir string) error
}

// Disk is an asset backed by a path on disk. Directories are copied
// recursively.
type Disk struct {
	Path string
}

// Name returns the base name of the path.
func (d Disk) Name() string { return filepath.Base(d.Path) }

// CopyTo copies the file or directory into dir, keeping its base name.
func (d Disk) CopyTo(dir string) error {
	info, err := os.Stat(d.Path)
	if err != nil {
		return fmt.Errorf("stat asset %s: %w", d.Path, err)
	}
	dst := filepath.Join(dir, d.Name())
	if info.IsDir() {
		return CopyDir(d.Path, dst)
	}
	return copyFile(d.Path, dst)
}

// Internal is an asset compiled into the binary, such as a layout's
// stylesheet.
type Internal struct {
	Path     string
	Contents []byte
}

// Name returns the asset's file name.
func (i Internal) Name() string { return filepath.Base(i.Path) }

// CopyTo writes the contents to dir/Path, creating parent directories as
// needed.
func (i Internal) CopyTo(dir string) error {
	dst := filepath.Join(dir, filepath.FromSlash(i.Path))
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}
	// #nosec G306 -- site output is meant to be world readable
	return os.WriteFile(dst, i.Contents, 0o644)
}

// CopyAll copies each asset into dir in order, stopping at the first failure.
func CopyAll(dir string, assets []Asset) error {
	for _, a := range assets {
		if err := a.CopyTo(dir); err != nil {
			return fmt.Errorf("copy asset %s: %w", a.Name(), err)
		}
	}
	return nil
}

// CopyDir recursively copies a directory tree. Existing directories in the
// destination are reused.
func CopyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := CopyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}

	return nil
}

// copyFile copies a single file from src to dst, preserving its permissions.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src) // #nosec G304 -- paths come from the walked source tree
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	return dstFile.Close()
}
