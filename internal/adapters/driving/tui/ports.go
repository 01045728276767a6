// Package tui provides the terminal views of the fatura CLI: a bubbletea
// progress view for folder batch runs and a lipgloss card for single
// records. It is a driving adapter over the core services.
package tui

import (
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the progress view.
type Ports struct {
	// Batch runs folder extractions.
	Batch driving.BatchService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Batch == nil {
		return ErrMissingBatchService
	}
	return nil
}
