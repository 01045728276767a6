package driven

import (
	"context"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

// DocumentLoader reads a document from a location such as a file path.
type DocumentLoader interface {
	// Load returns the document at uri with its MIME type detected.
	// Returns domain.ErrNotFound if nothing exists there and
	// domain.ErrUnsupportedType for formats the pipeline cannot read.
	Load(ctx context.Context, uri string) (*domain.RawDocument, error)
}

// BillFinder discovers bill files under a directory.
type BillFinder interface {
	// Find walks root and returns every bill file with the hints inferred
	// from its path, sorted by path.
	Find(ctx context.Context, root string) ([]domain.BillFile, error)
}
