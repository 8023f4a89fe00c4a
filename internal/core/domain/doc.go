// Package domain defines the core business entities for docscan.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: The OCR result for one uploaded file
//   - Page: One recognised page of a document
//   - Batch: The documents produced by one processing run
//   - Progress: A stage-change event emitted while a batch runs
//   - ProcessingError: The single failure a batch reports
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
