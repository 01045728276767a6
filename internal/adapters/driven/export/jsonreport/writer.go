// Package jsonreport exports batch reports as indented JSON.
package jsonreport

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
)

// Format is the report format name.
const Format = "json"

// Verify interface compliance.
var _ driven.ReportWriter = (*Writer)(nil)

// Writer renders batch reports with encoding/json.
type Writer struct{}

// New creates a JSON report writer.
func New() *Writer { return &Writer{} }

// Format returns "json".
func (w *Writer) Format() string { return Format }

// Write encodes the report followed by a newline.
func (w *Writer) Write(report *domain.BatchReport, out io.Writer) error {
	if report == nil {
		return fmt.Errorf("%w: nil report", domain.ErrInvalidInput)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("json write: %w", err)
	}
	return nil
}
