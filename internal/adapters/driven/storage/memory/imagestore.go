package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/core/ports/driven"
)

// Ensure ImageStore implements the interface.
var _ driven.ImageStore = (*ImageStore)(nil)

// ImageStore keeps page images in memory.
type ImageStore struct {
	mu     sync.RWMutex
	next   int
	images map[string]domain.PageImage
}

// NewImageStore creates a new in-memory image store.
func NewImageStore() *ImageStore {
	return &ImageStore{
		images: make(map[string]domain.PageImage),
	}
}

// Put stores an image and returns its handle.
func (s *ImageStore) Put(_ context.Context, img domain.PageImage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	ref := fmt.Sprintf("mem:%d", s.next)
	s.images[ref] = domain.PageImage{
		Data:     append([]byte(nil), img.Data...),
		MIMEType: img.MIMEType,
	}
	return ref, nil
}

// Get retrieves an image by handle.
func (s *ImageStore) Get(_ context.Context, ref string) (domain.PageImage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[ref]
	if !ok {
		return domain.PageImage{}, domain.ErrNotFound
	}
	return img, nil
}

// Release discards images. Unknown handles are ignored.
func (s *ImageStore) Release(_ context.Context, refs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ref := range refs {
		delete(s.images, ref)
	}
	return nil
}

// Len returns the number of images held.
func (s *ImageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}
