// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - OCREngine: Recognises text in a page image (HTTP service or Tesseract)
//   - Rasterizer: Turns a PDF into ordered page images
//   - ImageStore: Holds page images referenced by documents
//   - DocumentStore: Batch and document persistence
//   - ConfigStore: Application configuration
//   - SettingsValidator: Checks typed settings before use
//   - IDGenerator: Issues document and batch identifiers
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Preprocessor: Normalises images before OCR. Without it, images are sent as-is.
//   - EntityExtractor: Finds people, places and organisations. Without it, only pattern tags are produced.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
