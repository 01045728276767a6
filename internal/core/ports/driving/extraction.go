package driving

import (
	"context"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

// ExtractionService turns one bill into a structured record.
type ExtractionService interface {
	// Extract runs the two-state pipeline on an in-memory document.
	// A failure of both states returns an error wrapping
	// domain.ErrExtractionFailed.
	Extract(ctx context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error)

	// ExtractFile loads the document at path and extracts it. Non-empty
	// hints are merged over the ones inferred from the path.
	ExtractFile(ctx context.Context, path string, hints domain.Hints) (*domain.ExtractionResult, error)
}

// BatchService extracts every bill under a directory.
type BatchService interface {
	// Discover lists the bill files under root. A non-empty installation
	// keeps only files whose path names that installation.
	Discover(ctx context.Context, root, installation string) ([]domain.BillFile, error)

	// Run extracts every discovered file. A failing file becomes an item
	// error; only a cancelled context or an unreadable root fails the run.
	Run(ctx context.Context, root string, opts domain.BatchOptions) (*domain.BatchReport, error)
}

// FixupService exposes the active fixup table.
type FixupService interface {
	// List returns the rows the repair engine applies, in order.
	List() ([]domain.Fixup, error)
}
