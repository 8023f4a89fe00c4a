// Package ids issues identifiers for documents and batches.
package ids

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/custodia-labs/docscan/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.IDGenerator = (*Generator)(nil)

// Generator issues ULIDs for documents, so that IDs sort in upload order,
// and random UUIDs for batches.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

// NewGenerator creates a generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// DocumentID returns a new ULID. IDs issued within the same millisecond
// still increase monotonically.
func (g *Generator) DocumentID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Now(), g.entropy).String()
}

// BatchID returns a new random UUID.
func (g *Generator) BatchID() string {
	return uuid.NewString()
}
