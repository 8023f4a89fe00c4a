package mcp

import (
	"context"

	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/core/ports/driving"
)

// FileLoader reads files or directories from local disk.
type FileLoader func(ctx context.Context, paths ...string) ([]domain.SourceFile, error)

// Ports aggregates what the MCP server needs.
type Ports struct {
	// Session owns the current batch.
	Session driving.Session

	// Load reads files for process_files. Optional.
	Load FileLoader
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSession
	}
	return nil
}
