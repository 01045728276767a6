package driven

import (
	"context"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

// BillExtractor reads bill text into a record.
//
// A field that no strategy could find is not an error: it keeps its zero
// value. Extract returns an error only when the whole document cannot be
// handled, which makes the pipeline fall back to another extractor.
type BillExtractor interface {
	// Name identifies the extractor in results and logs.
	Name() string

	// Extract fills a fresh record from text. Implementations hold no
	// state between calls.
	Extract(ctx context.Context, text string) (*domain.Extraction, error)
}
