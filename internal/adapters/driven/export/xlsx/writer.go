// Package xlsx exports batch reports as Excel workbooks.
package xlsx

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
)

// Format is the report format name.
const Format = "xlsx"

// SheetName is the worksheet holding one row per bill.
const SheetName = "Faturas"

// Verify interface compliance.
var _ driven.ReportWriter = (*Writer)(nil)

// Writer renders batch reports with excelize.
type Writer struct {
	logger *slog.Logger
}

// New creates an XLSX report writer. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// Format returns "xlsx".
func (w *Writer) Format() string { return Format }

// Headers returns the column titles: the file path, one column per record
// field, then the pipeline path and error.
func Headers() []string {
	headers := []string{"path"}
	for _, f := range domain.Fields() {
		headers = append(headers, f.String())
	}
	return append(headers, "pipeline", "error")
}

// Write renders one row per batch item. Numeric fields are written as
// numbers so spreadsheets can sum them.
func (w *Writer) Write(report *domain.BatchReport, out io.Writer) error {
	if report == nil {
		return fmt.Errorf("%w: nil report", domain.ErrInvalidInput)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headers := Headers()
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	row := 2
	for _, item := range report.Items {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}

		write(1, item.Path)
		if item.Result != nil {
			rec := item.Result.Record
			for i, field := range domain.Fields() {
				write(i+2, cellValue(&rec, field))
			}
			write(len(headers)-1, string(item.Result.Path))
		}
		write(len(headers), item.Error)
		row++
	}

	_ = f.SetColWidth(SheetName, "A", "A", 60)
	_ = f.SetColWidth(SheetName, "B", "D", 18)

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}

	w.logger.Info("export.xlsx.ok", "run_id", report.RunID, "rows", len(report.Items))
	return nil
}

func cellValue(rec *domain.BillRecord, field domain.Field) any {
	switch {
	case field == domain.FieldReferenceYear:
		if rec.ReferenceYear == 0 {
			return ""
		}
		return rec.ReferenceYear
	case field.IsNumeric():
		s, _ := rec.Get(field)
		v, _ := decimal.RequireFromString(s).Float64()
		return v
	default:
		s, _ := rec.Get(field)
		return s
	}
}
