package driven

import (
	"context"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

// TextConverter turns a raw document into plain text. It is the
// PDF-to-text step in front of every extractor. Each converter handles
// specific MIME types (e.g., PDF, plain text).
type TextConverter interface {
	// Name identifies the converter in results and logs.
	Name() string

	// SupportedMIMETypes returns the MIME types this converter handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Tool-backed converters should return 50-89.
	// Pure-Go converters should return 10-49.
	// Passthrough converters should return 1-9.
	Priority() int

	// Convert returns the document's text as one blob. Its ordering and
	// whitespace are treated as authoritative downstream.
	Convert(ctx context.Context, raw *domain.RawDocument) (string, error)
}
