// Package imagefs stores page images as files under the data directory.
package imagefs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/core/ports/driven"
)

// Ensure ImageStore implements the interface.
var _ driven.ImageStore = (*ImageStore)(nil)

// ImageStore keeps one file per page image. Handles are file names.
type ImageStore struct {
	dir string
}

// NewImageStore creates an image store rooted at dir, creating it if needed.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Dir returns the directory holding the images.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Put writes an image and returns its handle.
func (s *ImageStore) Put(_ context.Context, img domain.PageImage) (string, error) {
	if len(img.Data) == 0 {
		return "", fmt.Errorf("%w: empty image", domain.ErrInvalidInput)
	}
	ref := uuid.NewString() + extension(img)
	if err := os.WriteFile(filepath.Join(s.dir, ref), img.Data, 0600); err != nil {
		return "", fmt.Errorf("writing image: %w", err)
	}
	return ref, nil
}

// Get reads an image. The MIME type is sniffed from its content.
func (s *ImageStore) Get(_ context.Context, ref string) (domain.PageImage, error) {
	path, err := s.path(ref)
	if err != nil {
		return domain.PageImage{}, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.PageImage{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.PageImage{}, fmt.Errorf("reading image: %w", err)
	}
	return domain.PageImage{Data: data, MIMEType: mimetype.Detect(data).String()}, nil
}

// Release deletes images. Unknown handles are ignored.
func (s *ImageStore) Release(_ context.Context, refs ...string) error {
	var errs []error
	for _, ref := range refs {
		path, err := s.path(ref)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// path resolves a handle, rejecting anything that is not a bare file name.
func (s *ImageStore) path(ref string) (string, error) {
	if ref == "" || ref != filepath.Base(ref) || strings.HasPrefix(ref, ".") {
		return "", fmt.Errorf("%w: image handle %q", domain.ErrInvalidInput, ref)
	}
	return filepath.Join(s.dir, ref), nil
}

func extension(img domain.PageImage) string {
	mime := img.MIMEType
	if mime == "" {
		mime = mimetype.Detect(img.Data).String()
	}
	if m := mimetype.Lookup(mime); m != nil {
		return m.Extension()
	}
	return ""
}
