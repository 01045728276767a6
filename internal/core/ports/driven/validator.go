package driven

import "github.com/custodia-labs/fatura-cli/internal/core/domain"

// RecordValidator checks a final record against the output contract.
type RecordValidator interface {
	// Validate returns an error wrapping domain.ErrInvalidRecord when the
	// record breaks the contract.
	Validate(rec *domain.BillRecord) error
}
