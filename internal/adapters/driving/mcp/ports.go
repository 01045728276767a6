package mcp

import (
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Extraction runs the bill pipeline.
	Extraction driving.ExtractionService

	// Fixups lists the active fixup table. Optional.
	Fixups driving.FixupService

	// Schema is the JSON schema of the output record. Optional.
	Schema []byte
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p == nil || p.Extraction == nil {
		return ErrMissingExtractionService
	}
	return nil
}
