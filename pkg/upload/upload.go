// Package upload stores multipart file uploads for later use as email
// attachments.
package upload

import (
	"context"
	"fmt"
	"math/rand"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/maildeck/maildeck/pkg/errx"
	"github.com/maildeck/maildeck/pkg/fsx/fsxlocal"
)

var uploadErrors = errx.NewRegistry("UPLOAD")

var (
	ErrNoFile     = uploadErrors.Register("NO_FILE", errx.TypeValidation, 400, "No file in request")
	ErrStoreError = uploadErrors.Register("STORE_ERROR", errx.TypeInternal, 500, "Failed to store uploaded file")
)

// StoredFile describes one persisted upload. AbsolutePath is what a send
// request references as an attachment path.
type StoredFile struct {
	RelativePath string `json:"relativePath"`
	AbsolutePath string `json:"absolutePath"`
}

// Service stores uploads under the configured local file system.
type Service struct {
	files *fsxlocal.LocalFileSystem
}

// NewService creates the upload service.
func NewService(files *fsxlocal.LocalFileSystem) *Service {
	return &Service{files: files}
}

// Store streams one multipart file to disk under a collision-free name and
// returns where it landed.
func (s *Service) Store(ctx context.Context, field string, header *multipart.FileHeader) (StoredFile, error) {
	file, err := header.Open()
	if err != nil {
		return StoredFile{}, uploadErrors.NewWithCause(ErrStoreError, err).
			WithDetail("filename", header.Filename)
	}
	defer file.Close()

	name := storedName(field, header.Filename)
	if err := s.files.WriteFileStream(ctx, name, file); err != nil {
		return StoredFile{}, uploadErrors.NewWithCause(ErrStoreError, err).
			WithDetail("filename", header.Filename)
	}

	return StoredFile{
		RelativePath: "/uploads/" + name,
		AbsolutePath: s.files.FullPath(name),
	}, nil
}

// storedName builds a unique on-disk name keeping the original extension.
func storedName(field, original string) string {
	suffix := fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Intn(1_000_000_000))
	return fmt.Sprintf("%s-%s%s", field, suffix, filepath.Ext(original))
}
