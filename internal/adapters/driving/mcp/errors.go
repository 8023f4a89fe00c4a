// Package mcp provides an MCP (Model Context Protocol) server adapter for docscan.
// It lets AI assistants submit scans, read the recognised text and curate tags.
package mcp

import "errors"

// ErrMissingSession is returned when the session is not provided.
var ErrMissingSession = errors.New("mcp: session is required")

// ErrNoLoader is returned by process_files when no file loader is configured.
var ErrNoLoader = errors.New("mcp: file loading is not configured")
