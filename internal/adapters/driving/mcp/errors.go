// Package mcp provides an MCP (Model Context Protocol) server adapter for phapdien.
// It lets AI assistants look up stored articles and ingest legal documents.
package mcp

import "errors"

// ErrMissingUnitService is returned when the unit service is not provided.
var ErrMissingUnitService = errors.New("mcp: unit service is required")
