package driven

import "github.com/custodia-labs/fatura-cli/internal/core/domain"

// FixupSource loads the known-entity fixup table.
type FixupSource interface {
	// Load returns the table rows in the order they should be applied.
	Load() ([]domain.Fixup, error)
}
