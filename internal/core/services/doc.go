// Package services implements the driving port interfaces.
// Services hold the batch processing and session logic and
// orchestrate calls to driven ports (adapters).
//
// Services are pure Go with no CGO or external dependencies.
package services
