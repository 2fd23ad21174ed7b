// Package fsx abstracts file storage behind small role interfaces so
// callers depend only on the operations they use.
package fsx

import (
	"context"
	"io"
	"time"
)

// FileInfo describes a stored file.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// FileReader provides read-only operations.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	Stat(ctx context.Context, path string) (FileInfo, error)
	Exists(ctx context.Context, path string) (bool, error)
}

// FileWriter provides write operations.
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, r io.Reader) error
}

// FileDeleter provides deletion.
type FileDeleter interface {
	DeleteFile(ctx context.Context, path string) error
}

// PathOperations provides path manipulation.
type PathOperations interface {
	Join(elem ...string) string
}

// FileSystem combines all file operations.
type FileSystem interface {
	FileReader
	FileWriter
	FileDeleter
	PathOperations
}
