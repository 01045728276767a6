// Package mcp provides an MCP (Model Context Protocol) server adapter for
// fatura. It lets AI assistants extract bills and read the record schema.
package mcp

import "errors"

// ErrMissingExtractionService is returned when the extraction service is not provided.
var ErrMissingExtractionService = errors.New("mcp: extraction service is required")

// ErrEmptyInput is returned when a tool is called without a path or text.
var ErrEmptyInput = errors.New("mcp: input is empty")
