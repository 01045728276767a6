package driven

import (
	"context"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

// DocumentInspector reads container-level facts, such as the page count,
// without extracting text.
type DocumentInspector interface {
	Inspect(ctx context.Context, raw *domain.RawDocument) (domain.DocumentInfo, error)
}
