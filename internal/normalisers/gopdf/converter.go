// Package gopdf converts PDF bills to text with a pure-Go reader. It needs
// no external tool, which makes it the fallback when pdftotext is missing
// or fails.
package gopdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
)

// Name identifies this converter in results.
const Name = "gopdf"

// maxTextBytes caps the plain-text read.
const maxTextBytes = 1 << 20

// Verify interface compliance.
var _ driven.TextConverter = (*Converter)(nil)

// Converter reads PDF text with github.com/ledongthuc/pdf.
type Converter struct{}

// New creates a pure-Go PDF converter.
func New() *Converter {
	return &Converter{}
}

// Name returns the converter identifier.
func (c *Converter) Name() string {
	return Name
}

// SupportedMIMETypes returns the MIME types this converter handles.
func (c *Converter) SupportedMIMETypes() []string {
	return []string{domain.MIMETypePDF}
}

// Priority returns the selection priority.
func (c *Converter) Priority() int {
	return 40 // Pure-Go converter
}

// Convert returns the document text, one output line per text row. Pages
// with no rows fall back to the library's plain-text stream.
//
// The reader panics on some malformed streams; those panics are returned
// as ErrConversionFailed.
func (c *Converter) Convert(ctx context.Context, raw *domain.RawDocument) (text string, err error) {
	if raw == nil || len(raw.Content) == 0 {
		return "", domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: pdf reader panic: %v", domain.ErrConversionFailed, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %w", domain.ErrConversionFailed, err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, w := range row.Content {
				words = append(words, w.S)
			}
			b.WriteString(strings.Join(words, " "))
			b.WriteByte('\n')
		}
	}
	if strings.TrimSpace(b.String()) != "" {
		return b.String(), nil
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: extract text: %w", domain.ErrConversionFailed, err)
	}
	data, err := io.ReadAll(io.LimitReader(plain, maxTextBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read text: %w", domain.ErrConversionFailed, err)
	}
	return string(data), nil
}
