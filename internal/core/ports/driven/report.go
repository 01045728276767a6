package driven

import (
	"io"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

// ReportWriter renders a batch report to a file format.
type ReportWriter interface {
	// Format names the output format (e.g., "xlsx").
	Format() string

	// Write renders report to w.
	Write(report *domain.BatchReport, w io.Writer) error
}
