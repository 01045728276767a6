package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
)

type pipelineFixture struct {
	primary   *mockConverter
	secondary *mockConverter
	cemig     *mockExtractor
	generic   *mockExtractor
	repair    *mockRepair
	pipeline  *ExtractionPipeline
}

func newFixture(opts ...ExtractionOption) *pipelineFixture {
	f := &pipelineFixture{
		primary:   &mockConverter{name: "pdftotext", text: "CEMIG specialized text"},
		secondary: &mockConverter{name: "gopdf", text: "generic text"},
		cemig: &mockExtractor{
			name:   "cemig",
			record: domain.BillRecord{InstallationNumber: "3001422762", TotalValue: decimal.RequireFromString("189.13")},
			prov: map[domain.Field]string{
				domain.FieldInstallationNumber: "label-next-line",
				domain.FieldTotalValue:         "total-label",
			},
		},
		generic: &mockExtractor{
			name:   "generic",
			record: domain.BillRecord{ClientNumber: "111", TotalValue: decimal.RequireFromString("50")},
			prov:   map[domain.Field]string{domain.FieldClientNumber: "label-next-line"},
		},
		repair: &mockRepair{},
	}
	registry := &mockRegistry{converters: []driven.TextConverter{f.primary, f.secondary}}
	opts = append([]ExtractionOption{WithIDGenerator(func() string { return "id-1" })}, opts...)
	f.pipeline = NewExtractionPipeline(registry, f.cemig, f.generic, f.repair, opts...)
	return f
}

func TestExtractionPipeline_Specialized(t *testing.T) {
	f := newFixture()

	result, err := f.pipeline.Extract(context.Background(), pdfDoc("bill.pdf"))

	require.NoError(t, err)
	assert.Equal(t, "id-1", result.ID)
	assert.Equal(t, "bill.pdf", result.URI)
	assert.Equal(t, domain.PathSpecialized, result.Path)
	assert.Equal(t, "pdftotext", result.Converter)
	assert.Equal(t, "cemig", result.Extractor)
	assert.Equal(t, "CEMIG specialized text", f.cemig.text)
	assert.Equal(t, 1, f.repair.calls)
	assert.Equal(t, 0, f.secondary.Calls())

	assert.Equal(t, "3001422762", result.Record.ClientNumber)
	assert.Equal(t, "repair:client-from-installation", result.Provenance[domain.FieldClientNumber])
	assert.Equal(t, "label-next-line", result.Provenance[domain.FieldInstallationNumber])
	assert.Empty(t, result.Warnings)
}

func TestExtractionPipeline_FallbackOnConversionFailure(t *testing.T) {
	f := newFixture()
	f.primary.err = errBoom

	result, err := f.pipeline.Extract(context.Background(), pdfDoc("bill.pdf"))

	require.NoError(t, err)
	assert.Equal(t, domain.PathFallback, result.Path)
	assert.Equal(t, "gopdf", result.Converter)
	assert.Equal(t, "generic", result.Extractor)
	assert.Equal(t, "generic text", f.generic.text)
	assert.Equal(t, "111", result.Record.ClientNumber)
	assert.Equal(t, 0, f.repair.calls, "repair does not run on the fallback path")
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "boom")
}

func TestExtractionPipeline_FallbackOnExtractorError(t *testing.T) {
	f := newFixture()
	f.cemig.err = errors.New("layout not recognised")

	result, err := f.pipeline.Extract(context.Background(), pdfDoc("bill.pdf"))

	require.NoError(t, err)
	assert.Equal(t, domain.PathFallback, result.Path)
	assert.Equal(t, 1, f.primary.Calls())
	assert.Equal(t, 1, f.secondary.Calls())
}

func TestExtractionPipeline_FallbackOnBlankText(t *testing.T) {
	f := newFixture()
	f.primary.text = "  \n\t "

	result, err := f.pipeline.Extract(context.Background(), pdfDoc("bill.pdf"))

	require.NoError(t, err)
	assert.Equal(t, domain.PathFallback, result.Path)
	assert.Contains(t, result.Warnings[0], "produced no text")
}

func TestExtractionPipeline_FallbackReusesSingleConverter(t *testing.T) {
	conv := &mockConverter{name: "pdftotext", text: "text"}
	cemig := &mockExtractor{name: "cemig", err: errBoom}
	generic := &mockExtractor{name: "generic"}
	p := NewExtractionPipeline(&mockRegistry{converters: []driven.TextConverter{conv}}, cemig, generic, nil)

	result, err := p.Extract(context.Background(), pdfDoc("bill.pdf"))

	require.NoError(t, err)
	assert.Equal(t, domain.PathFallback, result.Path)
	assert.Equal(t, "pdftotext", result.Converter)
	assert.Equal(t, 2, conv.Calls())
}

func TestExtractionPipeline_TerminalFailure(t *testing.T) {
	f := newFixture()
	f.primary.err = errBoom
	f.secondary.err = errors.New("malformed xref")

	result, err := f.pipeline.Extract(context.Background(), pdfDoc("bill.pdf"))

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.ErrorIs(t, err, domain.ErrConversionFailed)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to parse PDF"), err.Error())
}

func TestExtractionPipeline_TerminalFailureFromFallbackExtractor(t *testing.T) {
	f := newFixture()
	f.cemig.err = errBoom
	f.generic.err = errors.New("generic broke")

	_, err := f.pipeline.Extract(context.Background(), pdfDoc("bill.pdf"))

	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.Contains(t, err.Error(), "generic broke")
}

func TestExtractionPipeline_InvalidInput(t *testing.T) {
	f := newFixture()

	_, err := f.pipeline.Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.pipeline.Extract(context.Background(), &domain.RawDocument{MIMEType: domain.MIMETypePDF})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtractionPipeline_UnsupportedType(t *testing.T) {
	f := newFixture()

	_, err := f.pipeline.Extract(context.Background(), &domain.RawDocument{MIMEType: "image/png", Content: []byte("x")})

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestExtractionPipeline_ConversionTimeout(t *testing.T) {
	f := newFixture(WithConversionTimeout(20 * time.Millisecond))
	f.primary.delay = time.Second

	result, err := f.pipeline.Extract(context.Background(), pdfDoc("bill.pdf"))

	require.NoError(t, err)
	assert.Equal(t, domain.PathFallback, result.Path)
	assert.True(t, f.primary.deadline)
	assert.Contains(t, result.Warnings[0], "deadline exceeded")
}

func TestExtractionPipeline_NoTimeout(t *testing.T) {
	f := newFixture(WithConversionTimeout(0))

	_, err := f.pipeline.Extract(context.Background(), pdfDoc("bill.pdf"))

	require.NoError(t, err)
	assert.False(t, f.primary.deadline)
}

func TestExtractionPipeline_CancelledContext(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.primary.err = context.Canceled

	_, err := f.pipeline.Extract(ctx, pdfDoc("bill.pdf"))

	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.secondary.Calls())
}

func TestExtractionPipeline_Inspector(t *testing.T) {
	t.Run("records page count", func(t *testing.T) {
		f := newFixture(WithInspector(&mockInspector{pages: 2}))
		result, err := f.pipeline.Extract(context.Background(), pdfDoc("bill.pdf"))
		require.NoError(t, err)
		assert.Equal(t, 2, result.Pages)
	})

	t.Run("failure becomes a warning", func(t *testing.T) {
		f := newFixture(WithInspector(&mockInspector{err: errors.New("bad xref")}))
		result, err := f.pipeline.Extract(context.Background(), pdfDoc("bill.pdf"))
		require.NoError(t, err)
		assert.Equal(t, domain.PathSpecialized, result.Path)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "bad xref")
	})

	t.Run("skipped for text input", func(t *testing.T) {
		inspector := &mockInspector{err: errBoom}
		f := newFixture(WithInspector(inspector))
		doc := &domain.RawDocument{URI: "bill.txt", MIMEType: domain.MIMETypePlainText, Content: []byte("CEMIG")}
		result, err := f.pipeline.Extract(context.Background(), doc)
		require.NoError(t, err)
		assert.Empty(t, result.Warnings)
	})
}

func TestExtractionPipeline_Validator(t *testing.T) {
	f := newFixture(WithValidator(&mockValidator{err: domain.ErrInvalidRecord}))

	result, err := f.pipeline.Extract(context.Background(), pdfDoc("bill.pdf"))

	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "invalid record")
}

func TestExtractionPipeline_Hints(t *testing.T) {
	tests := []struct {
		name       string
		record     domain.BillRecord
		prov       map[domain.Field]string
		hints      domain.Hints
		wantInst   string
		wantMonth  string
		wantYear   int
		wantSource string
	}{
		{
			name:       "fills empty installation and period",
			hints:      domain.Hints{Installation: "3001422762", Month: "Setembro", Year: 2024},
			wantInst:   "3001422762",
			wantMonth:  "Setembro",
			wantYear:   2024,
			wantSource: domain.ProvenanceHint,
		},
		{
			name:   "replaces clock-derived period",
			record: domain.BillRecord{ReferenceMonth: "Março", ReferenceYear: 2026},
			prov: map[domain.Field]string{
				domain.FieldReferenceMonth: domain.ProvenanceClock,
				domain.FieldReferenceYear:  domain.ProvenanceClock,
			},
			hints:      domain.Hints{Month: "Setembro", Year: 2024},
			wantMonth:  "Setembro",
			wantYear:   2024,
			wantSource: domain.ProvenanceHint,
		},
		{
			name:   "keeps printed values",
			record: domain.BillRecord{InstallationNumber: "42", ReferenceMonth: "Janeiro", ReferenceYear: 2024},
			prov: map[domain.Field]string{
				domain.FieldReferenceMonth: "referente-a",
				domain.FieldReferenceYear:  "referente-a",
			},
			hints:      domain.Hints{Installation: "3001422762", Month: "Setembro", Year: 2024},
			wantInst:   "42",
			wantMonth:  "Janeiro",
			wantYear:   2024,
			wantSource: "referente-a",
		},
		{
			name:      "ignores month without year",
			hints:     domain.Hints{Month: "Setembro"},
			wantMonth: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.cemig.record = tt.record
			f.cemig.prov = tt.prov
			doc := pdfDoc("bill.pdf")
			doc.Hints = tt.hints

			result, err := f.pipeline.Extract(context.Background(), doc)

			require.NoError(t, err)
			assert.Equal(t, tt.wantMonth, result.Record.ReferenceMonth)
			assert.Equal(t, tt.wantYear, result.Record.ReferenceYear)
			if tt.wantInst != "" {
				assert.Equal(t, tt.wantInst, result.Record.InstallationNumber)
			}
			if tt.wantSource != "" {
				assert.Equal(t, tt.wantSource, result.Provenance[domain.FieldReferenceMonth])
			}
			assert.Equal(t, tt.hints, result.Hints)
		})
	}
}

func TestExtractionPipeline_ExtractFile(t *testing.T) {
	loaded := pdfDoc("/bills/3001422762-09-2024.pdf")
	loaded.Hints = domain.Hints{Installation: "3001422762", Month: "Setembro", Year: 2024}
	loader := &mockLoader{docs: map[string]*domain.RawDocument{loaded.URI: loaded}}
	f := newFixture(WithLoader(loader))

	result, err := f.pipeline.ExtractFile(context.Background(), loaded.URI, domain.Hints{ClientID: "client-7"})

	require.NoError(t, err)
	assert.Equal(t, "client-7", result.Hints.ClientID)
	assert.Equal(t, "3001422762", result.Hints.Installation)
	assert.Equal(t, "Setembro", result.Record.ReferenceMonth)

	_, err = f.pipeline.ExtractFile(context.Background(), "/bills/missing.pdf", domain.Hints{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExtractionPipeline_ExtractFile_NoLoader(t *testing.T) {
	f := newFixture()
	_, err := f.pipeline.ExtractFile(context.Background(), "/bills/a.pdf", domain.Hints{})
	assert.Error(t, err)
}

func TestMergeHints(t *testing.T) {
	base := domain.Hints{Installation: "1", Month: "Janeiro", Year: 2024}

	assert.Equal(t, base, mergeHints(base, domain.Hints{}))
	assert.Equal(t,
		domain.Hints{ClientID: "c", Installation: "2", Month: "Maio", Year: 2023},
		mergeHints(base, domain.Hints{ClientID: "c", Installation: "2", Month: "Maio", Year: 2023}),
	)
	assert.Equal(t, base, mergeHints(base, domain.Hints{Month: "Maio"}))
}
