package services

import (
	"fmt"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driving"
)

// Ensure FixupCatalog implements the interface.
var _ driving.FixupService = (*FixupCatalog)(nil)

// FixupCatalog reads the active fixup table from its source.
type FixupCatalog struct {
	source driven.FixupSource
}

// NewFixupCatalog creates a catalog. A nil source yields an empty table.
func NewFixupCatalog(source driven.FixupSource) *FixupCatalog {
	return &FixupCatalog{source: source}
}

// List returns the rows the repair engine applies, in order.
func (c *FixupCatalog) List() ([]domain.Fixup, error) {
	if c.source == nil {
		return nil, nil
	}
	rows, err := c.source.Load()
	if err != nil {
		return nil, fmt.Errorf("load fixups: %w", err)
	}
	return rows, nil
}
