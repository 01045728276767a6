// Package pdfinfo reads container-level facts from PDF bills with pdfcpu.
package pdfinfo

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.DocumentInspector = (*Inspector)(nil)

var disableConfigDir sync.Once

// Inspector validates PDF structure and counts pages.
type Inspector struct {
	conf *model.Configuration
}

// New creates an inspector using pdfcpu's relaxed validation mode.
func New() *Inspector {
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Inspector{conf: conf}
}

// Inspect returns the page count. Non-PDF documents report zero pages.
func (i *Inspector) Inspect(ctx context.Context, raw *domain.RawDocument) (domain.DocumentInfo, error) {
	if raw == nil || len(raw.Content) == 0 {
		return domain.DocumentInfo{}, domain.ErrInvalidInput
	}
	if raw.MIMEType != domain.MIMETypePDF {
		return domain.DocumentInfo{}, nil
	}
	if err := ctx.Err(); err != nil {
		return domain.DocumentInfo{}, err
	}

	pages, err := api.PageCount(bytes.NewReader(raw.Content), i.conf)
	if err != nil {
		return domain.DocumentInfo{}, fmt.Errorf("inspect %s: %w", raw.URI, err)
	}
	return domain.DocumentInfo{Pages: pages}, nil
}
