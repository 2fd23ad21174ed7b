// Package fsxlocal implements fsx.FileSystem on the local disk under a
// fixed base directory.
package fsxlocal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/maildeck/maildeck/pkg/fsx"
)

// LocalFileSystem stores files beneath basePath. Paths handed to its
// methods are relative to that base.
type LocalFileSystem struct {
	basePath string
}

// NewLocalFileSystem creates the base directory if needed and returns a
// file system rooted there.
func NewLocalFileSystem(basePath string) (*LocalFileSystem, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path: %w", err)
	}
	return &LocalFileSystem{basePath: abs}, nil
}

// BasePath returns the absolute root directory.
func (fs *LocalFileSystem) BasePath() string { return fs.basePath }

// FullPath resolves a relative storage path to an absolute disk path.
func (fs *LocalFileSystem) FullPath(path string) string {
	return filepath.Join(fs.basePath, filepath.Clean("/"+path))
}

func (fs *LocalFileSystem) ReadFile(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(fs.FullPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (fs *LocalFileSystem) Stat(_ context.Context, path string) (fsx.FileInfo, error) {
	info, err := os.Stat(fs.FullPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return fsx.FileInfo{}, fmt.Errorf("file not found: %s", path)
		}
		return fsx.FileInfo{}, fmt.Errorf("failed to stat file: %w", err)
	}
	return fsx.FileInfo{
		Name:    info.Name(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}, nil
}

func (fs *LocalFileSystem) Exists(_ context.Context, path string) (bool, error) {
	if _, err := os.Stat(fs.FullPath(path)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (fs *LocalFileSystem) WriteFile(_ context.Context, path string, data []byte) error {
	full := fs.FullPath(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (fs *LocalFileSystem) WriteFileStream(_ context.Context, path string, r io.Reader) error {
	full := fs.FullPath(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (fs *LocalFileSystem) DeleteFile(_ context.Context, path string) error {
	if err := os.Remove(fs.FullPath(path)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (fs *LocalFileSystem) Join(elem ...string) string {
	return filepath.Join(elem...)
}
